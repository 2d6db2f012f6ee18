// Package prompt builds the system instruction and multimodal user message
// sent to the model for one generation.
package prompt

import (
	"errors"
	"fmt"
	"strings"

	"screenshop/internal/model"
)

var (
	ErrNoScreenshots = errors.New("no screenshots provided")
	ErrHintMismatch  = errors.New("page hints do not match screenshots")
)

// Block is one content element of a message: an image or a text block.
type Block struct {
	Type   string       `json:"type"`
	Text   string       `json:"text,omitempty"`
	Source *ImageSource `json:"source,omitempty"`
}

// ImageSource carries base64 image data inline.
type ImageSource struct {
	Type      string `json:"type"`
	MediaType string `json:"media_type"`
	Data      string `json:"data"`
}

// Message is one conversation turn.
type Message struct {
	Role    string  `json:"role"`
	Content []Block `json:"content"`
}

// Prompt is the complete model input for a generation.
type Prompt struct {
	System   string
	Messages []Message
}

// ImageBlock returns an inline base64 image block.
func ImageBlock(mediaType, data string) Block {
	return Block{Type: "image", Source: &ImageSource{Type: "base64", MediaType: mediaType, Data: data}}
}

// TextBlock returns a text block.
func TextBlock(text string) Block {
	return Block{Type: "text", Text: text}
}

// Build assembles the prompt: one image block per screenshot, in order,
// followed by a single text block naming each screenshot's page hint.
func Build(shots []model.Screenshot, hints []model.PageHint) (Prompt, error) {
	if len(shots) == 0 {
		return Prompt{}, ErrNoScreenshots
	}
	if len(hints) != len(shots) {
		return Prompt{}, fmt.Errorf("%w: %d screenshots, %d hints", ErrHintMismatch, len(shots), len(hints))
	}

	content := make([]Block, 0, len(shots)+1)
	for _, s := range shots {
		content = append(content, ImageBlock(s.MimeType, s.Base64))
	}
	content = append(content, TextBlock(UserText(hints)))

	return Prompt{
		System:   SystemInstruction(),
		Messages: []Message{{Role: "user", Content: content}},
	}, nil
}

// HintText lists "Screenshot N: <hint>" lines, 1-based.
func HintText(hints []model.PageHint) string {
	lines := make([]string, len(hints))
	for i, h := range hints {
		lines[i] = fmt.Sprintf("Screenshot %d: %s", i+1, h)
	}
	return strings.Join(lines, "\n")
}

// UserText is the trailing text block of the user message.
func UserText(hints []model.PageHint) string {
	return fmt.Sprintf(
		"Analyze the %d screenshot(s) provided above.\n\nPage context:\n%s\n\n"+
			"Generate the complete Next.js App Router storefront JSON now. "+
			"Extract the visual design faithfully and output all %d required files.",
		len(hints), HintText(hints), len(RequiredFiles))
}
