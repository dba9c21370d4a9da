package extract

import (
	"cmp"
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"slices"
	"time"

	"github.com/sirupsen/logrus"

	"blinkx/internal/httputil"
	"blinkx/internal/media"
)

// DefaultBlinkxHost is the domain the API host is derived from.
const DefaultBlinkxHost = "blinkx.com"

var blinkxPattern = regexp.MustCompile(`^(?:https?://(?:www\.)blinkx\.com/ce/|blinkx:)(?P<id>[^?]+)`)

// displayIDLength is how many characters of the video ID form the display ID.
const displayIDLength = 8

// BlinkxOptions configures a Blinkx extractor. Zero values select defaults.
type BlinkxOptions struct {
	Host     string         // API domain, default DefaultBlinkxHost
	Location *time.Location // Zone for upload dates, default UTC
	Logger   logrus.FieldLogger
}

// Blinkx extracts videos from blinkx.com through its play_video API.
type Blinkx struct {
	fetcher httputil.Fetcher
	host    string
	loc     *time.Location
	log     logrus.FieldLogger
}

// NewBlinkx creates a Blinkx extractor that fetches through f.
func NewBlinkx(f httputil.Fetcher, opts BlinkxOptions) *Blinkx {
	b := &Blinkx{
		fetcher: f,
		host:    opts.Host,
		loc:     opts.Location,
	}
	if b.host == "" {
		b.host = DefaultBlinkxHost
	}
	if b.loc == nil {
		b.loc = time.UTC
	}
	log := opts.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}
	b.log = log.WithField("extractor", "blinkx")
	return b
}

// Name returns "blinkx".
func (b *Blinkx) Name() string { return "blinkx" }

// Pattern matches http(s)://www.blinkx.com/ce/<id> and blinkx:<id>.
func (b *Blinkx) Pattern() *regexp.Regexp { return blinkxPattern }

// MatchBlinkx extracts the video ID and its short display ID from a URL.
// ok is false when the URL does not belong to blinkx.
func MatchBlinkx(url string) (videoID, displayID string, ok bool) {
	m := blinkxPattern.FindStringSubmatch(url)
	if m == nil {
		return "", "", false
	}
	videoID = m[blinkxPattern.SubexpIndex("id")]
	return videoID, shortID(videoID), true
}

// shortID returns the first displayIDLength characters of id, or all of
// id when it is shorter.
func shortID(id string) string {
	r := []rune(id)
	if len(r) <= displayIDLength {
		return id
	}
	return string(r[:displayIDLength])
}

// apiURL builds the play_video query. The ID is inserted verbatim.
func (b *Blinkx) apiURL(videoID string) string {
	return fmt.Sprintf("https://apib4.%s/api.php?action=play_video&video=%s", b.host, videoID)
}

// Extract fetches and maps the API response for a blinkx URL.
// Fetch failures are returned unwrapped.
func (b *Blinkx) Extract(ctx context.Context, url string) (*media.Result, error) {
	videoID, displayID, ok := MatchBlinkx(url)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedURL, url)
	}

	apiURL := b.apiURL(videoID)
	b.log.WithFields(logrus.Fields{"id": displayID, "url": apiURL}).Debug("downloading video info")

	body, err := b.fetcher.Fetch(ctx, apiURL, displayID)
	if err != nil {
		return nil, err
	}

	return b.mapResponse(body, videoID, displayID)
}

// ExtractID extracts a bare blinkx video ID, as handed over by a redirect.
func (b *Blinkx) ExtractID(ctx context.Context, id string) (*media.Result, error) {
	return b.Extract(ctx, "blinkx:"+id)
}

// apiResponse is the play_video response envelope.
type apiResponse struct {
	API *struct {
		Results []apiResult `json:"results"`
	} `json:"api"`
}

type apiResult struct {
	PubdateEpoch *flexInt           `json:"pubdate_epoch"`
	Title        *string            `json:"title"`
	ChannelName  *string            `json:"channel_name"`
	Description  *string            `json:"description"`
	Media        *[]json.RawMessage `json:"media"` // Decoded lazily, in order
}

// mapResponse converts an API body into a Result. A youtube item ends the
// scan immediately and everything gathered so far is discarded.
func (b *Blinkx) mapResponse(body, videoID, displayID string) (*media.Result, error) {
	var resp apiResponse
	if err := json.Unmarshal([]byte(body), &resp); err != nil {
		return nil, fmt.Errorf("%w: parsing %s: %w", ErrMalformedResponse, displayID, err)
	}
	if resp.API == nil {
		return nil, fmt.Errorf("%w: no \"api\" object", ErrMalformedResponse)
	}
	if len(resp.API.Results) == 0 {
		return nil, fmt.Errorf("%w: no results", ErrMalformedResponse)
	}

	data := resp.API.Results[0]
	switch {
	case data.PubdateEpoch == nil:
		return nil, fmt.Errorf("%w: missing \"pubdate_epoch\"", ErrMalformedResponse)
	case data.Title == nil:
		return nil, fmt.Errorf("%w: missing \"title\"", ErrMalformedResponse)
	case data.ChannelName == nil:
		return nil, fmt.Errorf("%w: missing \"channel_name\"", ErrMalformedResponse)
	case data.Media == nil:
		return nil, fmt.Errorf("%w: missing \"media\"", ErrMalformedResponse)
	}

	uploadDate := time.Unix(int64(*data.PubdateEpoch), 0).In(b.loc).Format("20060102")

	var duration *float64
	thumbnails := []media.Thumbnail{}
	formats := []media.Format{}

	for i, msg := range *data.Media {
		var raw rawItem
		if err := json.Unmarshal(msg, &raw); err != nil {
			return nil, fmt.Errorf("%w: media item %d: %w", ErrMalformedResponse, i, err)
		}
		item, err := raw.decode()
		if err != nil {
			return nil, fmt.Errorf("media item %d: %w", i, err)
		}

		switch item.kind {
		case kindThumbnail:
			thumbnails = append(thumbnails, item.thumbnail)
		case kindDuration:
			d := item.duration
			duration = &d
		case kindRedirect:
			b.log.WithField("id", displayID).Infof("Youtube video detected: %s", item.target)
			return &media.Result{Redirect: &media.Redirect{
				Extractor: "Youtube",
				TargetID:  item.target,
			}}, nil
		case kindFormat:
			formats = append(formats, item.format)
		}
	}

	sortFormats(formats)

	return &media.Result{Info: &media.Info{
		Extractor:   b.Name(),
		ID:          displayID,
		FullID:      videoID,
		Title:       *data.Title,
		Formats:     formats,
		Uploader:    *data.ChannelName,
		UploadDate:  uploadDate,
		Description: data.Description,
		Thumbnails:  thumbnails,
		Duration:    duration,
	}}, nil
}

// sortFormats orders formats by width, then video bitrate, then audio
// bitrate, keeping the input order of ties.
func sortFormats(formats []media.Format) {
	slices.SortStableFunc(formats, func(a, b media.Format) int {
		if c := cmp.Compare(a.Width, b.Width); c != 0 {
			return c
		}
		if c := cmp.Compare(a.VBR, b.VBR); c != 0 {
			return c
		}
		return cmp.Compare(a.ABR, b.ABR)
	})
}
