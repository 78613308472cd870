package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProcessHTMLContentAddsClasses(t *testing.T) {
	in := `<h2>Setup</h2><p>First steps.</p>`
	out := ProcessHTMLContent(in)

	assert.Contains(t, out, `<h2 class="content-heading">Setup</h2>`)
	assert.Contains(t, out, `<p class="content-paragraph">First steps.</p>`)
}

func TestProcessHTMLContentKeepsExistingClass(t *testing.T) {
	in := `<p class="lead">Intro</p>`
	assert.Equal(t, in, ProcessHTMLContent(in))
}

func TestProcessHTMLContentKeepsAttributes(t *testing.T) {
	in := `<a href="/pricing">Plans</a>`
	assert.Equal(t, `<a href="/pricing" class="content-link">Plans</a>`, ProcessHTMLContent(in))
}

func TestProcessHTMLContentUnknownTagsUntouched(t *testing.T) {
	in := `<div><span>plain</span></div>`
	assert.Equal(t, in, ProcessHTMLContent(in))
}
