// Package media defines shared types for the blinkx application.
package media

// Format is a single playable rendition of a video.
type Format struct {
	FormatID string `json:"format_id"` // e.g., "h264-528k-640"
	URL      string `json:"url"`
	VCodec   string `json:"vcodec"`
	ACodec   string `json:"acodec"`
	ABR      int    `json:"abr"` // Audio bitrate in kbps
	VBR      int    `json:"vbr"` // Video bitrate in kbps
	Width    int    `json:"width"`
	Height   int    `json:"height"`
}

// TotalBitrate returns the combined audio and video bitrate in kbps.
func (f Format) TotalBitrate() int {
	return f.ABR + f.VBR
}

// Thumbnail is a still image of a video.
type Thumbnail struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// Info is the normalized description of a single video.
type Info struct {
	Extractor   string      `json:"extractor"`
	ID          string      `json:"id"`     // Short display ID
	FullID      string      `json:"fullid"` // Full provider ID
	Title       string      `json:"title"`
	Formats     []Format    `json:"formats"` // Ascending quality, best last
	Uploader    string      `json:"uploader"`
	UploadDate  string      `json:"upload_date"` // YYYYMMDD
	Description *string     `json:"description,omitempty"`
	Thumbnails  []Thumbnail `json:"thumbnails"`
	Duration    *float64    `json:"duration,omitempty"` // Seconds
}

// Best returns the highest quality format, or nil if there are none.
func (i *Info) Best() *Format {
	if len(i.Formats) == 0 {
		return nil
	}
	return &i.Formats[len(i.Formats)-1]
}

// FormatByID returns the format with the given ID, or nil.
func (i *Info) FormatByID(id string) *Format {
	for k := range i.Formats {
		if i.Formats[k].FormatID == id {
			return &i.Formats[k]
		}
	}
	return nil
}

// Redirect tells the caller that the video is hosted by another site
// and must be extracted by the named extractor.
type Redirect struct {
	Extractor string `json:"ie_key"` // e.g., "Youtube"
	TargetID  string `json:"url"`
}

// Result is the outcome of one extraction. Exactly one field is set.
type Result struct {
	Info     *Info
	Redirect *Redirect
}

// IsRedirect reports whether the result points to another extractor.
func (r *Result) IsRedirect() bool {
	return r.Redirect != nil
}
