// Package embed defines the typed payloads of embed elements and their
// encoding as data-* attributes of the <ndlaembed> tag.
package embed

import (
	"github.com/NDLANO/editorcore/pkg/document"
)

// Resource discriminates embed payloads. It is written as data-resource.
type Resource string

const (
	ResourceImage      Resource = "image"
	ResourceBrightcove Resource = "brightcove"
	ResourceExternal   Resource = "external"
	ResourceIframe     Resource = "iframe"
	ResourceAudio      Resource = "audio"
	ResourceH5P        Resource = "h5p"
	ResourceFile       Resource = "file"
	ResourceConcept    Resource = "concept"
	ResourceComment    Resource = "comment"
)

// Embed is the payload of an embed element.
type Embed interface {
	document.Data
	Resource() Resource
}

// Attr is a data attribute without its "data-" prefix.
type Attr struct {
	Key   string
	Value string
}

// Image references an image from the image API.
type Image struct {
	ResourceID   string `attr:"resource_id" validate:"required"`
	Size         string `attr:"size,omitempty"`
	Align        string `attr:"align,omitempty"`
	Alt          string `attr:"alt,omitempty"`
	Caption      string `attr:"caption,omitempty"`
	URL          string `attr:"url,omitempty" validate:"omitempty,url"`
	FocalX       string `attr:"focal-x,omitempty"`
	FocalY       string `attr:"focal-y,omitempty"`
	UpperLeftX   string `attr:"upper-left-x,omitempty"`
	UpperLeftY   string `attr:"upper-left-y,omitempty"`
	LowerRightX  string `attr:"lower-right-x,omitempty"`
	LowerRightY  string `attr:"lower-right-y,omitempty"`
	IsDecorative string `attr:"is-decorative,omitempty" validate:"omitempty,oneof=true false"`
	Border       string `attr:"border,omitempty"`
	Extra        []Attr
}

// Brightcove references a video hosted by Brightcove.
type Brightcove struct {
	VideoID string `attr:"videoid" validate:"required"`
	Title   string `attr:"title,omitempty"`
	URL     string `attr:"url,omitempty"`
	Caption string `attr:"caption,omitempty"`
	Account string `attr:"account,omitempty" validate:"required"`
	Player  string `attr:"player,omitempty" validate:"required"`
	Extra   []Attr
}

// External is an oEmbed-capable external resource such as YouTube.
type External struct {
	URL     string `attr:"url" validate:"required,url"`
	Title   string `attr:"title,omitempty"`
	Caption string `attr:"caption,omitempty"`
	Type    string `attr:"type,omitempty"`
	Extra   []Attr
}

// Iframe embeds an arbitrary page.
type Iframe struct {
	URL    string `attr:"url" validate:"required,url"`
	Width  string `attr:"width,omitempty"`
	Height string `attr:"height,omitempty"`
	Title  string `attr:"title,omitempty"`
	Type   string `attr:"type,omitempty"`
	Extra  []Attr
}

// Audio references a file from the audio API.
type Audio struct {
	ResourceID string `attr:"resource_id" validate:"required"`
	Type       string `attr:"type,omitempty" validate:"omitempty,oneof=standard minimal podcast"`
	URL        string `attr:"url,omitempty"`
	Extra      []Attr
}

// H5P references an interactive H5P resource.
type H5P struct {
	Path  string `attr:"path" validate:"required"`
	Title string `attr:"title,omitempty"`
	URL   string `attr:"url,omitempty"`
	Alt   string `attr:"alt,omitempty"`
	Extra []Attr
}

// File is one entry of a file list.
type File struct {
	Type    string `attr:"type" validate:"required"`
	URL     string `attr:"url" validate:"required"`
	Path    string `attr:"path,omitempty"`
	Title   string `attr:"title" validate:"required"`
	Display string `attr:"display,omitempty" validate:"omitempty,oneof=block inline"`
	Extra   []Attr
}

// Concept references an explanation from the concept API.
type Concept struct {
	ContentID string `attr:"content-id" validate:"required"`
	Type      string `attr:"type" validate:"required,oneof=block inline"`
	LinkText  string `attr:"link-text,omitempty"`
	Extra     []Attr
}

// Comment is an editorial comment attached to a block or a text span.
type Comment struct {
	Type  string `attr:"type" validate:"required,oneof=block inline"`
	Text  string `attr:"text,omitempty"`
	Extra []Attr
}

// Generic carries an embed whose resource has no registered variant.
type Generic struct {
	Res   Resource
	Attrs []Attr
}

func (*Image) Resource() Resource      { return ResourceImage }
func (*Brightcove) Resource() Resource { return ResourceBrightcove }
func (*External) Resource() Resource   { return ResourceExternal }
func (*Iframe) Resource() Resource     { return ResourceIframe }
func (*Audio) Resource() Resource      { return ResourceAudio }
func (*H5P) Resource() Resource        { return ResourceH5P }
func (*File) Resource() Resource       { return ResourceFile }
func (*Concept) Resource() Resource    { return ResourceConcept }
func (*Comment) Resource() Resource    { return ResourceComment }
func (g *Generic) Resource() Resource  { return g.Res }

func (e *Image) Kind() string      { return kind(e) }
func (e *Brightcove) Kind() string { return kind(e) }
func (e *External) Kind() string   { return kind(e) }
func (e *Iframe) Kind() string     { return kind(e) }
func (e *Audio) Kind() string      { return kind(e) }
func (e *H5P) Kind() string        { return kind(e) }
func (e *File) Kind() string       { return kind(e) }
func (e *Concept) Kind() string    { return kind(e) }
func (e *Comment) Kind() string    { return kind(e) }
func (e *Generic) Kind() string    { return kind(e) }

func kind(e Embed) string { return "embed/" + string(e.Resource()) }

// IsInline reports whether the payload belongs to an inline embed
// (inline concepts and comments).
func IsInline(e Embed) bool {
	switch e := e.(type) {
	case *Concept:
		return e.Type == "inline"
	case *Comment:
		return e.Type == "inline"
	}
	return false
}
