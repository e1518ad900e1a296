// Package icon derives app icon assets from an emoji.
package icon

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"html"
	"strings"
	"unicode/utf8"

	"github.com/spendlog/spendlog/internal/model"
)

// Pixel sizes of the derived assets.
const (
	FaviconSize   = 32
	TouchIconSize = 180
	SmallIconSize = 192
	LargeIconSize = 512
)

const maxEmojiRunes = 16

// ErrInvalidEmoji is returned for an empty, oversized or non-UTF-8 emoji.
var ErrInvalidEmoji = errors.New("invalid emoji")

// Renderer draws the emoji centered on a square SVG canvas.
type Renderer struct {
	Background string // CSS color; empty means transparent
}

// Render returns the icon set for emoji as base64 SVG data URIs.
func (r Renderer) Render(ctx context.Context, emoji string) (model.AppIcon, error) {
	if err := ctx.Err(); err != nil {
		return model.AppIcon{}, err
	}

	emoji = strings.TrimSpace(emoji)
	if emoji == "" || !utf8.ValidString(emoji) || utf8.RuneCountInString(emoji) > maxEmojiRunes {
		return model.AppIcon{}, fmt.Errorf("%w: %q", ErrInvalidEmoji, emoji)
	}

	return model.AppIcon{
		Emoji:     emoji,
		Favicon:   r.dataURI(emoji, FaviconSize),
		TouchIcon: r.dataURI(emoji, TouchIconSize),
		Icon192:   r.dataURI(emoji, SmallIconSize),
		Icon512:   r.dataURI(emoji, LargeIconSize),
	}, nil
}

// SVG returns the raw SVG document for emoji at size pixels.
func (r Renderer) SVG(emoji string, size int) string {
	var bg string
	if r.Background != "" {
		bg = fmt.Sprintf(`<rect width="100%%" height="100%%" fill="%s"/>`, html.EscapeString(r.Background))
	}
	// Glyphs render at roughly 80% of the canvas so they do not clip.
	return fmt.Sprintf(
		`<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">%s`+
			`<text x="50%%" y="50%%" dominant-baseline="central" text-anchor="middle" font-size="%d">%s</text></svg>`,
		size, size, size, size, bg, size*4/5, html.EscapeString(emoji),
	)
}

func (r Renderer) dataURI(emoji string, size int) string {
	return "data:image/svg+xml;base64," + base64.StdEncoding.EncodeToString([]byte(r.SVG(emoji, size)))
}
