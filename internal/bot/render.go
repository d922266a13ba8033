package bot

import (
	"errors"
	"fmt"
	"strings"

	"screennotes/internal/app"
	"screennotes/internal/i18n"
	"screennotes/pkg/domain"
	"screennotes/pkg/ocr"
)

var stageKeys = map[app.Stage]string{
	app.StageExtracting:  i18n.KeyExtracting,
	app.StageStructuring: i18n.KeyStructuring,
	app.StageUploading:   i18n.KeyUploading,
	app.StageSaving:      i18n.KeySaving,
}

// failureKey maps a terminal pipeline error to the message key shown to the
// user. Credential expiry gets its own message so operators hear about it.
func failureKey(err error) string {
	var ocrErr *ocr.Error
	if errors.As(err, &ocrErr) {
		switch ocrErr.Kind {
		case ocr.KindAuthExpired:
			return i18n.KeyErrAuthExpired
		case ocr.KindAccessDenied:
			return i18n.KeyErrAccessDenied
		case ocr.KindNetwork:
			return i18n.KeyErrNetwork
		default:
			return i18n.KeyErrGeneric
		}
	}
	switch {
	case errors.Is(err, app.ErrUnsupportedMedia):
		return i18n.KeyErrUnsupportedMedia
	case errors.Is(err, app.ErrNoTextFound):
		return i18n.KeyErrNoText
	case errors.Is(err, app.ErrStructuringFailed):
		return i18n.KeyErrStructuring
	case errors.Is(err, app.ErrAssetUpload):
		return i18n.KeyErrUpload
	case errors.Is(err, app.ErrNoteSave):
		return i18n.KeyErrSave
	}
	return i18n.KeyErrGeneric
}

func renderSuccess(lang domain.Language, note domain.Note) string {
	tags := "—"
	if len(note.Tags) > 0 {
		tags = strings.Join(note.Tags, ", ")
	}
	preview := note.Content
	if runes := []rune(preview); len(runes) > previewMaxLen {
		preview = string(runes[:previewMaxLen]) + "..."
	}
	return fmt.Sprintf(i18n.Text(lang, i18n.KeySuccess), note.Title, tags, preview, note.AssetURL)
}

func renderList(lang domain.Language, notes []domain.Note) string {
	var sb strings.Builder
	sb.WriteString(i18n.Text(lang, i18n.KeyRecentNotes))
	for i, note := range notes {
		sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, note.Title))
		if len(note.Tags) > 0 {
			sb.WriteString("   🏷 " + strings.Join(note.Tags, ", ") + "\n")
		}
		sb.WriteString("   📅 " + note.CreatedAt.Format("2006-01-02 15:04") + "\n\n")
	}
	return sb.String()
}
