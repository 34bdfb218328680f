package catalog

import (
	"fmt"
	"net/url"
	"strings"
)

// ImageVariant picks the breakpoint/width hints for a placement.
type ImageVariant int

const (
	// VariantThumbnail is used for cart rows and recommendation cards.
	VariantThumbnail ImageVariant = iota
	// VariantHero is the primary product-detail image.
	VariantHero
)

type breakpoint struct {
	media string
	width int
}

var variantBreakpoints = map[ImageVariant][]breakpoint{
	VariantThumbnail: {
		{media: "(min-width: 600px)", width: 750},
		{width: 350},
	},
	VariantHero: {
		{media: "(min-width: 600px)", width: 2000},
		{width: 750},
	},
}

// ImageSource is one optimized source entry of a responsive picture.
type ImageSource struct {
	Media  string
	Srcset string
}

// ImageRender is everything a template needs to emit the image. Absolute URLs
// bypass the responsive pipeline and render as a plain img element.
type ImageRender struct {
	URL      string
	Alt      string
	Absolute bool
	Eager    bool
	Sources  []ImageSource
	Fallback string
}

// Loading returns the img loading attribute value.
func (r ImageRender) Loading() string {
	if r.Eager {
		return "eager"
	}
	return "lazy"
}

// ImageURL resolves the product's image for the client's environment. Legacy
// records read the single image field; current records prefer the external
// URL and fall back to the DAM reference. Empty means render no image.
func (c *Client) ImageURL(p *Product) string {
	if p == nil {
		return ""
	}
	if p.Legacy {
		if p.LegacyImage == nil {
			return ""
		}
		return p.LegacyImage.For(c.env)
	}
	if p.ExternalImage != "" {
		return p.ExternalImage
	}
	if p.DAMImage != nil {
		return p.DAMImage.For(c.env)
	}
	return ""
}

// IsAbsoluteURL reports whether raw carries a scheme.
func IsAbsoluteURL(raw string) bool {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return false
	}
	return u.IsAbs()
}

// RenderImage prepares the view model for an image placement. It returns nil
// when there is nothing to render.
func RenderImage(rawURL, alt string, variant ImageVariant, eager bool) *ImageRender {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return nil
	}
	render := &ImageRender{URL: rawURL, Alt: alt, Eager: eager}
	if IsAbsoluteURL(rawURL) {
		render.Absolute = true
		return render
	}
	bps := variantBreakpoints[variant]
	for _, bp := range bps {
		render.Sources = append(render.Sources, ImageSource{
			Media:  bp.media,
			Srcset: optimizedSrc(rawURL, bp.width),
		})
	}
	if len(bps) > 0 {
		render.Fallback = optimizedSrc(rawURL, bps[len(bps)-1].width)
	} else {
		render.Fallback = rawURL
	}
	return render
}

func optimizedSrc(path string, width int) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return fmt.Sprintf("%s%swidth=%d&format=webply&optimize=medium", path, sep, width)
}
