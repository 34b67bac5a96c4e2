// Package markdown answers questions about a markdown document for the
// editor: its outline, its size, its front matter and how it renders.
// Nothing here modifies the document.
package markdown
