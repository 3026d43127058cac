package telegram

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gotd/td/tg"
)

// classifyMedia maps an API media object onto the explicit MediaKind enum.
func classifyMedia(media tg.MessageMediaClass) MediaKind {
	switch m := media.(type) {
	case nil:
		return MediaNone
	case *tg.MessageMediaPhoto:
		return MediaPhoto
	case *tg.MessageMediaDocument:
		doc, ok := m.Document.(*tg.Document)
		if !ok {
			return MediaUnknown
		}
		for _, attr := range doc.Attributes {
			switch attr.(type) {
			case *tg.DocumentAttributeVideo:
				return MediaVideo
			case *tg.DocumentAttributeAudio:
				return MediaAudio
			}
		}
		return MediaDocument
	default:
		return MediaUnknown
	}
}

// DownloadMedia fetches a message's attachment into the images directory and
// returns the file path, or "" when the attachment is not downloadable.
// Failures are per-item: the caller records them and keeps going.
func (c *Client) DownloadMedia(ctx context.Context, channel *Channel, msg Message) (string, error) {
	if msg.Media == MediaNone || msg.raw == nil {
		return "", nil
	}

	loc, ext, ok := downloadLocation(msg.raw)
	if !ok {
		return "", nil
	}

	if err := os.MkdirAll(c.imagesDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create images directory: %w", err)
	}
	path := filepath.Join(c.imagesDir, fmt.Sprintf("%s_%d.%s", channel.Handle, msg.ID, ext))

	if err := c.limiter.Wait(ctx); err != nil {
		return "", err
	}
	if _, err := c.dl.Download(c.api, loc).ToPath(ctx, path); err != nil {
		return "", fmt.Errorf("failed to download media for message %d: %w", msg.ID, classify(err))
	}
	return path, nil
}

// downloadLocation builds the file location and extension for an attachment.
func downloadLocation(media tg.MessageMediaClass) (tg.InputFileLocationClass, string, bool) {
	switch m := media.(type) {
	case *tg.MessageMediaPhoto:
		photo, ok := m.Photo.(*tg.Photo)
		if !ok {
			return nil, "", false
		}
		thumb := largestPhotoSize(photo.Sizes)
		if thumb == "" {
			return nil, "", false
		}
		return &tg.InputPhotoFileLocation{
			ID:            photo.ID,
			AccessHash:    photo.AccessHash,
			FileReference: photo.FileReference,
			ThumbSize:     thumb,
		}, "jpg", true
	case *tg.MessageMediaDocument:
		doc, ok := m.Document.(*tg.Document)
		if !ok {
			return nil, "", false
		}
		return &tg.InputDocumentFileLocation{
			ID:            doc.ID,
			AccessHash:    doc.AccessHash,
			FileReference: doc.FileReference,
		}, docExtension(doc.MimeType), true
	default:
		return nil, "", false
	}
}

// largestPhotoSize picks the type of the biggest available size. Sizes come
// ordered smallest to largest.
func largestPhotoSize(sizes []tg.PhotoSizeClass) string {
	t := ""
	for _, s := range sizes {
		switch sz := s.(type) {
		case *tg.PhotoSize:
			t = sz.Type
		case *tg.PhotoSizeProgressive:
			t = sz.Type
		}
	}
	return t
}

// docExtension derives a file extension from a MIME type, falling back to a
// generic one for exotic types.
func docExtension(mimeType string) string {
	if i := strings.LastIndex(mimeType, "/"); i >= 0 && i < len(mimeType)-1 {
		return mimeType[i+1:]
	}
	return "bin"
}
