package pipeline

import "github.com/dmitrijs2005/photocast/internal/models"

// maxEligibleSize is the declared-size ceiling for displayable files.
const maxEligibleSize = 100 << 20 // 100 MiB

// nonWebExtensions lists image formats a browser-class renderer cannot show
// directly. Of these only HEIC/HEIF is eligible, because it is the one
// format the pipeline knows how to transcode.
var nonWebExtensions = map[string]struct{}{
	"heic": {}, "heif": {},
	"tif": {}, "tiff": {},
	"raw": {}, "dng": {},
	"cr2": {}, "cr3": {}, "nef": {}, "arw": {}, "orf": {}, "rw2": {},
	"psd": {},
}

// heicExtensions are the nominal extensions the materializer treats as HEIC
// when deciding thumbnail-vs-full-file.
var heicExtensions = map[string]struct{}{"heic": {}, "heif": {}}

// Eligible reports whether a decrypted file is displayable.
//
// The extension check is known to be imprecise: mis-named files may slip
// through or be wrongly excluded. Accurate typing needs byte-level sniffing,
// which the materializer performs for eligible files only, so ineligible
// ones are never downloaded.
func Eligible(f *models.DecryptedFile) bool {
	kind := f.Metadata.FileType
	if kind != models.FileTypeImage && kind != models.FileTypeLivePhoto {
		return false
	}

	if f.Metadata.Size > maxEligibleSize {
		return false
	}

	ext := f.Extension()
	if _, nonWeb := nonWebExtensions[ext]; nonWeb {
		_, heic := heicExtensions[ext]
		return heic
	}

	return true
}
