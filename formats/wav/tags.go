// SPDX-License-Identifier: EPL-2.0

package wav

import (
	gowav "github.com/go-audio/wav"
	"github.com/ik5/playdec/audio"
)

// infoTags maps tag keys to the RIFF INFO fields go-audio knows about.
var infoTags = []struct {
	key   string
	field func(*gowav.Metadata) *string
}{
	{"TITLE", func(m *gowav.Metadata) *string { return &m.Title }},
	{"ARTIST", func(m *gowav.Metadata) *string { return &m.Artist }},
	{"ALBUM", func(m *gowav.Metadata) *string { return &m.Product }},
	{"GENRE", func(m *gowav.Metadata) *string { return &m.Genre }},
	{"COMMENT", func(m *gowav.Metadata) *string { return &m.Comments }},
	{"COPYRIGHT", func(m *gowav.Metadata) *string { return &m.Copyright }},
	{"DATE", func(m *gowav.Metadata) *string { return &m.CreationDate }},
	{"TRACKNUMBER", func(m *gowav.Metadata) *string { return &m.TrackNbr }},
	{"ENCODER", func(m *gowav.Metadata) *string { return &m.Software }},
	{"ENGINEER", func(m *gowav.Metadata) *string { return &m.Engineer }},
	{"KEYWORDS", func(m *gowav.Metadata) *string { return &m.Keywords }},
	{"SUBJECT", func(m *gowav.Metadata) *string { return &m.Subject }},
	{"SOURCE", func(m *gowav.Metadata) *string { return &m.Source }},
}

func revisionFromInfo(m *gowav.Metadata) (audio.MetadataRevision, bool) {
	if m == nil {
		return audio.MetadataRevision{}, false
	}

	var rev audio.MetadataRevision
	for _, t := range infoTags {
		if v := *t.field(m); v != "" {
			rev.Tags = append(rev.Tags, audio.Tag{Key: t.key, Value: v})
		}
	}

	return rev, len(rev.Tags) > 0
}

// infoFromRevision keeps the tags that have an INFO field. It returns nil
// when none of them do.
func infoFromRevision(rev audio.MetadataRevision) *gowav.Metadata {
	m := &gowav.Metadata{}
	found := false

	for _, tag := range rev.Tags {
		for _, t := range infoTags {
			if t.key == tag.Key {
				*t.field(m) = tag.Value
				found = true
			}
		}
	}

	if !found {
		return nil
	}

	return m
}
