package extract

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"blinkx/internal/media"
)

// itemKind classifies an entry of the API's media list.
type itemKind int

const (
	kindUnknown itemKind = iota
	kindThumbnail
	kindDuration
	kindRedirect
	kindFormat
)

// mediaItem is a decoded media list entry. Only the field matching kind is set.
type mediaItem struct {
	kind      itemKind
	thumbnail media.Thumbnail
	duration  float64
	target    string // Third-party video ID
	format    media.Format
}

// rawItem mirrors one element of api.results[0].media. Pointers
// distinguish absent keys from zero values.
type rawItem struct {
	Type   itemType   `json:"type"`
	Link   *string    `json:"link"`
	W      *flexInt   `json:"w"`
	H      *flexInt   `json:"h"`
	D      *flexFloat `json:"d"`
	VCodec *string    `json:"vcodec"`
	ACodec *string    `json:"acodec"`
	VBR    *flexInt   `json:"vbr"`
	ABR    *flexInt   `json:"abr"`
}

// itemType is the "type" tag of a media item. Present values that are
// not strings (null included) keep an empty tag and decode as unknown.
type itemType struct {
	set bool
	tag string
}

func (t *itemType) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	t.set = true
	t.tag, _ = v.(string)
	return nil
}

// decode turns a raw entry into a mediaItem. Unrecognized types decode
// to kindUnknown without error; recognized types must carry their keys.
func (r rawItem) decode() (mediaItem, error) {
	if !r.Type.set {
		return mediaItem{}, fmt.Errorf("%w: media item has no \"type\"", ErrMalformedResponse)
	}
	switch r.Type.tag {
	case "jpg":
		if err := r.require("link", "w", "h"); err != nil {
			return mediaItem{}, err
		}
		return mediaItem{
			kind: kindThumbnail,
			thumbnail: media.Thumbnail{
				URL:    *r.Link,
				Width:  int(*r.W),
				Height: int(*r.H),
			},
		}, nil

	case "original":
		if err := r.require("d"); err != nil {
			return mediaItem{}, err
		}
		return mediaItem{kind: kindDuration, duration: float64(*r.D)}, nil

	case "youtube":
		if err := r.require("link"); err != nil {
			return mediaItem{}, err
		}
		return mediaItem{kind: kindRedirect, target: *r.Link}, nil

	case "flv", "mp4":
		if err := r.require("link", "vcodec", "acodec", "vbr", "abr", "w", "h"); err != nil {
			return mediaItem{}, err
		}
		vcodec := StripPrefix(*r.VCodec, "ff")
		acodec := StripPrefix(*r.ACodec, "ff")
		vbr, abr := int(*r.VBR), int(*r.ABR)
		width := int(*r.W)
		return mediaItem{
			kind: kindFormat,
			format: media.Format{
				FormatID: fmt.Sprintf("%s-%dk-%d", vcodec, (vbr+abr)/1000, width),
				URL:      *r.Link,
				VCodec:   vcodec,
				ACodec:   acodec,
				ABR:      abr / 1000,
				VBR:      vbr / 1000,
				Width:    width,
				Height:   int(*r.H),
			},
		}, nil

	default:
		return mediaItem{kind: kindUnknown}, nil
	}
}

// require reports the first of the named keys that is absent.
func (r rawItem) require(keys ...string) error {
	for _, k := range keys {
		var present bool
		switch k {
		case "link":
			present = r.Link != nil
		case "w":
			present = r.W != nil
		case "h":
			present = r.H != nil
		case "d":
			present = r.D != nil
		case "vcodec":
			present = r.VCodec != nil
		case "acodec":
			present = r.ACodec != nil
		case "vbr":
			present = r.VBR != nil
		case "abr":
			present = r.ABR != nil
		}
		if !present {
			return fmt.Errorf("%w: %q media item has no %q", ErrMalformedResponse, r.Type.tag, k)
		}
	}
	return nil
}

// flexInt decodes an integer sent either as a JSON number or a numeric string.
// Fractional JSON numbers are truncated; strings must hold an integer.
type flexInt int64

func (n *flexInt) UnmarshalJSON(data []byte) error {
	s, quoted, err := numericText(data)
	if err != nil {
		return err
	}
	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		*n = flexInt(v)
		return nil
	}
	if quoted {
		return fmt.Errorf("not an integer: %s", data)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("not an integer: %s", data)
	}
	*n = flexInt(int64(f))
	return nil
}

// flexFloat decodes a float sent either as a JSON number or a numeric string.
type flexFloat float64

func (n *flexFloat) UnmarshalJSON(data []byte) error {
	s, _, err := numericText(data)
	if err != nil {
		return err
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("not a number: %s", data)
	}
	*n = flexFloat(f)
	return nil
}

// numericText unwraps a JSON number or string into its text form and
// reports whether it was quoted.
func numericText(data []byte) (string, bool, error) {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return "", true, err
		}
		return strings.TrimSpace(s), true, nil
	}
	return string(data), false, nil
}
