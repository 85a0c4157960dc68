package raster

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/jo-hoe/filterapi/internal/apperror"
)

// JPEGQuality is the fixed quality used for every JPEG output
const JPEGQuality = 95

const (
	MimePNG  = "image/png"
	MimeJPEG = "image/jpeg"
)

// Format is an output encoding selected by the client
type Format struct {
	// Extension is the file extension without dot, as spelled by the client (png, jpeg or jpg)
	Extension string
	MIME      string
	encoding  imaging.Format
}

var (
	PNG  = Format{Extension: "png", MIME: MimePNG, encoding: imaging.PNG}
	JPEG = Format{Extension: "jpeg", MIME: MimeJPEG, encoding: imaging.JPEG}
)

// FormatNames lists the accepted values of the output format selector
var FormatNames = []string{"png", "jpeg", "jpg"}

// ParseFormat resolves the output format selector; empty means PNG
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "png":
		return PNG, nil
	case "jpeg":
		return JPEG, nil
	case "jpg":
		jpg := JPEG
		jpg.Extension = "jpg"
		return jpg, nil
	default:
		return Format{}, apperror.InvalidParameter("formato", name, "deve ser um de: "+strings.Join(FormatNames, ", "))
	}
}

// Encode writes img in the requested format. Single channel rasters are
// expanded to three channels first.
func Encode(img image.Image, format Format) ([]byte, error) {
	var buf bytes.Buffer
	var err error
	if format.encoding == imaging.JPEG {
		err = imaging.Encode(&buf, ToColor(img), imaging.JPEG, imaging.JPEGQuality(JPEGQuality))
	} else {
		err = imaging.Encode(&buf, ToColor(img), imaging.PNG)
	}
	if err != nil {
		return nil, apperror.Encoding(fmt.Sprintf("Erro ao codificar imagem no formato %s", format.Extension), err)
	}
	return buf.Bytes(), nil
}

// DataURI embeds data as a base64 data URI with the given MIME type
func DataURI(data []byte, mime string) string {
	return fmt.Sprintf("data:%s;base64,%s", mime, base64.StdEncoding.EncodeToString(data))
}

// EncodeDataURI encodes img and returns it as a data URI
func EncodeDataURI(img image.Image, format Format) (string, error) {
	data, err := Encode(img, format)
	if err != nil {
		return "", err
	}
	return DataURI(data, format.MIME), nil
}
