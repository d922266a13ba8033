package app

import "errors"

var (
	// ErrUnsupportedMedia indicates empty bytes or an unknown media kind.
	ErrUnsupportedMedia = errors.New("unsupported media")
	// ErrNoTextFound indicates extraction produced no readable text.
	ErrNoTextFound = errors.New("no text found")
	// ErrStructuringFailed indicates the note draft could not be built.
	ErrStructuringFailed = errors.New("structuring failed")
	// ErrAssetUpload indicates the source bytes could not be stored.
	ErrAssetUpload = errors.New("asset upload failed")
	// ErrNoteSave indicates the note record could not be persisted.
	ErrNoteSave = errors.New("note save failed")
)
