package telegram

import (
	"testing"

	"github.com/gotd/td/tg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyMedia(t *testing.T) {
	tests := []struct {
		name  string
		media tg.MessageMediaClass
		want  MediaKind
	}{
		{"no media", nil, MediaNone},
		{"photo", &tg.MessageMediaPhoto{}, MediaPhoto},
		{
			"plain document",
			&tg.MessageMediaDocument{Document: &tg.Document{MimeType: "application/pdf"}},
			MediaDocument,
		},
		{
			"video document",
			&tg.MessageMediaDocument{Document: &tg.Document{
				Attributes: []tg.DocumentAttributeClass{&tg.DocumentAttributeVideo{}},
			}},
			MediaVideo,
		},
		{
			"audio document",
			&tg.MessageMediaDocument{Document: &tg.Document{
				Attributes: []tg.DocumentAttributeClass{&tg.DocumentAttributeAudio{}},
			}},
			MediaAudio,
		},
		{"geo location", &tg.MessageMediaGeo{}, MediaUnknown},
		{"empty document", &tg.MessageMediaDocument{Document: &tg.DocumentEmpty{}}, MediaUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, classifyMedia(tt.media))
		})
	}
}

func TestDocExtension(t *testing.T) {
	assert.Equal(t, "pdf", docExtension("application/pdf"))
	assert.Equal(t, "jpeg", docExtension("image/jpeg"))
	assert.Equal(t, "bin", docExtension("weird"))
	assert.Equal(t, "bin", docExtension("trailing/"))
	assert.Equal(t, "bin", docExtension(""))
}

func TestLargestPhotoSize(t *testing.T) {
	sizes := []tg.PhotoSizeClass{
		&tg.PhotoSize{Type: "s"},
		&tg.PhotoSize{Type: "m"},
		&tg.PhotoSizeProgressive{Type: "y"},
	}
	assert.Equal(t, "y", largestPhotoSize(sizes))
	assert.Equal(t, "", largestPhotoSize(nil))
}

func TestDownloadLocationForPhoto(t *testing.T) {
	media := &tg.MessageMediaPhoto{Photo: &tg.Photo{
		ID:         10,
		AccessHash: 20,
		Sizes:      []tg.PhotoSizeClass{&tg.PhotoSize{Type: "x"}},
	}}

	loc, ext, ok := downloadLocation(media)
	require.True(t, ok)
	assert.Equal(t, "jpg", ext)

	photoLoc, ok := loc.(*tg.InputPhotoFileLocation)
	require.True(t, ok)
	assert.Equal(t, int64(10), photoLoc.ID)
	assert.Equal(t, "x", photoLoc.ThumbSize)
}

func TestDownloadLocationSkipsUndownloadable(t *testing.T) {
	_, _, ok := downloadLocation(&tg.MessageMediaGeo{})
	assert.False(t, ok)

	// A photo without sizes has nothing to fetch.
	_, _, ok = downloadLocation(&tg.MessageMediaPhoto{Photo: &tg.Photo{}})
	assert.False(t, ok)

	_, _, ok = downloadLocation(&tg.MessageMediaPhoto{})
	assert.False(t, ok)
}
