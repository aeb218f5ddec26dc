package chat

import (
	"fmt"
	"mime"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"unicode"
)

const PDFContentType = "application/pdf"

// DeclaredType returns the media type implied by the file name, without
// parameters. Unknown extensions yield "".
func DeclaredType(name string) string {
	t := mime.TypeByExtension(strings.ToLower(filepath.Ext(name)))
	if t == "" {
		return ""
	}
	mediaType, _, err := mime.ParseMediaType(t)
	if err != nil {
		return ""
	}
	return mediaType
}

// FilterPDFs keeps the files declared as application/pdf, in order.
func FilterPDFs(files []PendingFile) []PendingFile {
	var out []PendingFile
	for _, f := range files {
		if f.ContentType == PDFContentType {
			out = append(out, f)
		}
	}
	return out
}

// SplitPaths breaks pasted or typed text into file paths. Terminals paste
// dropped files either quoted, with backslash-escaped spaces, or as file://
// URIs, one or more per line.
func SplitPaths(text string) []string {
	var (
		paths   []string
		current strings.Builder
		quote   rune
		escaped bool
		started bool
	)

	flush := func() {
		if started {
			paths = append(paths, fromURI(current.String()))
		}
		current.Reset()
		started = false
	}

	for _, r := range text {
		switch {
		case escaped:
			current.WriteRune(r)
			escaped = false
		case r == '\\' && quote != '\'':
			escaped = true
			started = true
		case quote != 0:
			if r == quote {
				quote = 0
			} else {
				current.WriteRune(r)
			}
		case r == '"' || r == '\'':
			quote = r
			started = true
		case unicode.IsSpace(r):
			flush()
		default:
			current.WriteRune(r)
			started = true
		}
	}
	flush()

	return paths
}

func fromURI(p string) string {
	if !strings.HasPrefix(p, "file://") {
		return p
	}
	u, err := url.Parse(p)
	if err != nil || u.Path == "" {
		return p
	}
	return u.Path
}

// Resolve stats each path and builds the candidate files. Paths that do not
// exist or name directories are returned as errors and left out.
func Resolve(paths []string) ([]PendingFile, []error) {
	var (
		files []PendingFile
		errs  []error
	)
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if info.IsDir() {
			errs = append(errs, fmt.Errorf("%s is a directory", p))
			continue
		}
		files = append(files, PendingFile{
			Name:        filepath.Base(p),
			Path:        p,
			ContentType: DeclaredType(p),
			Size:        info.Size(),
		})
	}
	return files, errs
}
