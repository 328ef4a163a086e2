package clinic

import (
	"encoding/json"
	"net/url"
	"strings"
)

// EncodeTags serialises tags for the tagsJson column. A nil list encodes as [].
func EncodeTags(tags []string) string {
	if tags == nil {
		tags = []string{}
	}
	data, err := json.Marshal(tags)
	if err != nil {
		return "[]"
	}
	return string(data)
}

// DecodeTags never fails: empty or malformed input yields an empty list.
func DecodeTags(raw string) []string {
	var tags []string
	if strings.TrimSpace(raw) == "" {
		return []string{}
	}
	if err := json.Unmarshal([]byte(raw), &tags); err != nil || tags == nil {
		return []string{}
	}
	return tags
}

func EncodeAttachments(files []Attachment) string {
	if files == nil {
		files = []Attachment{}
	}
	data, err := json.Marshal(files)
	if err != nil {
		return "[]"
	}
	return string(data)
}

// DecodeAttachments never fails: empty or malformed input yields an empty list.
func DecodeAttachments(raw string) []Attachment {
	var files []Attachment
	if strings.TrimSpace(raw) == "" {
		return []Attachment{}
	}
	if err := json.Unmarshal([]byte(raw), &files); err != nil || files == nil {
		return []Attachment{}
	}
	return files
}

// AttachmentName derives a display name from the last path segment of a URL.
func AttachmentName(rawURL string) string {
	p := rawURL
	if u, err := url.Parse(rawURL); err == nil && u.Path != "" {
		p = u.Path
	}
	p = strings.TrimSpace(p)
	if i := strings.LastIndex(p, "/"); i >= 0 {
		p = p[i+1:]
	}
	if p == "" {
		return "archivo"
	}
	return p
}
