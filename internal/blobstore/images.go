package blobstore

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

// ErrInvalidImage covers every image reference that cannot be stored or found.
var ErrInvalidImage = errors.New("invalid_image")

// ErrInvalidDataURL is returned for malformed inline images.
var ErrInvalidDataURL = fmt.Errorf("%w: invalid_data_url", ErrInvalidImage)

var keyPattern = regexp.MustCompile(`^(evidence|signatures)/\d{4}/\d{2}/\d{2}/[0-9a-f-]{36}\.(jpg|png)$`)

// Kind selects how an image is normalised before storage.
type Kind int

const (
	// Photo is re-encoded as JPEG and bounded to 1600px.
	Photo Kind = iota
	// Signature is re-encoded as PNG and bounded to 800px.
	Signature
)

func (k Kind) maxSide() int {
	if k == Signature {
		return 800
	}
	return 1600
}

// IsDataURL reports whether s carries inline image data.
func IsDataURL(s string) bool {
	return strings.HasPrefix(strings.TrimSpace(s), "data:")
}

// IsKey reports whether s has the shape of a key returned by NewKey.
func IsKey(s string) bool {
	return keyPattern.MatchString(strings.TrimSpace(s))
}

// IsImageRef reports whether s is an inline image or a stored image key.
func IsImageRef(s string) bool {
	s = strings.TrimSpace(s)
	return strings.HasPrefix(s, "data:image/") || IsKey(s)
}

// DecodeDataURL parses "data:<mime>;base64,<payload>".
func DecodeDataURL(s string) ([]byte, string, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "data:") {
		return nil, "", ErrInvalidDataURL
	}
	meta, payload, ok := strings.Cut(s[len("data:"):], ",")
	if !ok || !strings.HasSuffix(meta, ";base64") {
		return nil, "", ErrInvalidDataURL
	}
	mime := strings.TrimSuffix(meta, ";base64")
	if !strings.HasPrefix(mime, "image/") {
		return nil, "", ErrInvalidDataURL
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		if data, err = base64.RawStdEncoding.DecodeString(payload); err != nil {
			return nil, "", fmt.Errorf("%w: %v", ErrInvalidDataURL, err)
		}
	}
	return data, mime, nil
}

// Normalize decodes an image, bounds its size and re-encodes it.
func Normalize(data []byte, kind Kind) ([]byte, string, error) {
	src, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, "", fmt.Errorf("%w: decode image: %v", ErrInvalidImage, err)
	}
	side := kind.maxSide()
	img := imaging.Fit(src, side, side, imaging.Lanczos)

	var buf bytes.Buffer
	if kind == Signature {
		err = imaging.Encode(&buf, img, imaging.PNG)
		return buf.Bytes(), "image/png", err
	}
	err = imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(82))
	return buf.Bytes(), "image/jpeg", err
}

// NewKey builds a date partitioned object key.
func NewKey(prefix, ext string) string {
	return fmt.Sprintf("%s/%s/%s%s", prefix, time.Now().Format("2006/01/02"), uuid.NewString(), ext)
}

// Upload is a normalised image waiting to be written. Key and ContentType
// are set; Data is nil when the key refers to an image stored earlier.
type Upload struct {
	Key         string
	ContentType string
	Data        []byte
}

// Pending reports whether the upload still has to be written.
func (u *Upload) Pending() bool { return u.Data != nil }

// Prepare checks an image reference without writing anything. Data URLs are
// decoded, normalised and given a new key; stored keys must exist in st.
func Prepare(ctx context.Context, st Store, value, prefix string, kind Kind) (*Upload, error) {
	value = strings.TrimSpace(value)
	if !IsDataURL(value) {
		if !IsKey(value) {
			return nil, fmt.Errorf("%w: %q is not an image", ErrInvalidImage, value)
		}
		_, ct, err := st.Get(ctx, value)
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("%w: %s not stored", ErrInvalidImage, value)
		}
		if err != nil {
			return nil, err
		}
		return &Upload{Key: value, ContentType: ct}, nil
	}
	raw, _, err := DecodeDataURL(value)
	if err != nil {
		return nil, err
	}
	data, contentType, err := Normalize(raw, kind)
	if err != nil {
		return nil, err
	}
	ext := ".jpg"
	if contentType == "image/png" {
		ext = ".png"
	}
	return &Upload{Key: NewKey(prefix, ext), ContentType: contentType, Data: data}, nil
}

// StoreImage prepares value and writes it when new, returning its key.
func StoreImage(ctx context.Context, st Store, value, prefix string, kind Kind) (string, error) {
	up, err := Prepare(ctx, st, value, prefix, kind)
	if err != nil {
		return "", err
	}
	if up.Pending() {
		if err := st.Put(ctx, up.Key, up.ContentType, up.Data); err != nil {
			return "", err
		}
	}
	return up.Key, nil
}
