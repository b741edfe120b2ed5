package media

import "errors"

var (
	// ErrMediaNotFound covers every reason a claim can miss: absent, already
	// assigned, wrong format or not uploaded by the claimant.
	ErrMediaNotFound     = errors.New("media not found")
	ErrMediaExpired      = errors.New("expired file")
	ErrMediaUnavailable  = errors.New("media not found or already claimed")
	ErrMediaForbidden    = errors.New("media is private")
	ErrUnsupportedFormat = errors.New("unsupported media type")
	ErrMediaTooLarge     = errors.New("media size is out of range")
	ErrInvalidOwner      = errors.New("invalid owner kind")
)
