package codec

import (
	// Go Internal Packages
	"bytes"
	"encoding/json"
	"encoding/xml"
	"io"
	"strings"
	"unicode"

	// Local Packages
	errors "ipn-gateway/errors"
	models "ipn-gateway/models"
)

// Format is the wire format of a gateway payload. Replies always mirror the
// format of the request they answer; XML is the default when the format
// cannot be determined.
type Format int

const (
	FormatXML Format = iota
	FormatJSON
)

func (f Format) ContentType() string {
	if f == FormatJSON {
		return "application/json"
	}
	return "application/xml"
}

// Detect decides the wire format from the first non-whitespace byte:
// '<' means XML, anything else is treated as JSON. An all-whitespace body
// falls back to XML so error replies still have a deterministic shape.
func Detect(body []byte) Format {
	for _, b := range body {
		if unicode.IsSpace(rune(b)) {
			continue
		}
		if b == '<' {
			return FormatXML
		}
		return FormatJSON
	}
	return FormatXML
}

// Decode parses the body into a flat field map and reports the detected
// format. Unparsable bodies return a malformed-payload error; the detected
// format is still returned so the caller can reply in kind.
func Decode(body []byte) (map[string]string, Format, error) {
	format := Detect(body)
	var (
		fields map[string]string
		err    error
	)
	if format == FormatXML {
		fields, err = decodeXML(body)
	} else {
		fields, err = decodeJSON(body)
	}
	if err != nil {
		return nil, format, err
	}
	return fields, format, nil
}

// decodeXML maps each top-level child element's name to its text content.
// Nested structure below that level is ignored: the gateway contract is a
// flat field list.
func decodeXML(body []byte) (map[string]string, error) {
	d := xml.NewDecoder(bytes.NewReader(body))
	fields := make(map[string]string)

	depth := 0
	sawRoot := false
	var name string
	var text strings.Builder

	for {
		tok, err := d.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.MalformedPayloadErr(err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			depth++
			if depth == 1 {
				sawRoot = true
			}
			if depth == 2 {
				name = t.Name.Local
				text.Reset()
			}
		case xml.CharData:
			if depth == 2 {
				text.Write(t)
			}
		case xml.EndElement:
			if depth == 2 {
				fields[name] = strings.TrimSpace(text.String())
			}
			depth--
		}
	}
	if !sawRoot {
		return nil, errors.MalformedPayloadErr(errors.E(errors.Invalid, "no root element"))
	}
	return fields, nil
}

// decodeJSON parses the body as a flat object. Numbers keep their literal
// representation so amounts survive unaltered. A nested object or array is
// rejected as malformed rather than silently dropped: a required field
// hidden inside one would otherwise surface as a misleading missing-fields
// failure.
func decodeJSON(body []byte) (map[string]string, error) {
	d := json.NewDecoder(bytes.NewReader(body))
	d.UseNumber()

	raw := make(map[string]any)
	if err := d.Decode(&raw); err != nil {
		return nil, errors.MalformedPayloadErr(err)
	}

	fields := make(map[string]string, len(raw))
	for k, v := range raw {
		switch val := v.(type) {
		case string:
			fields[k] = val
		case json.Number:
			fields[k] = val.String()
		case bool:
			if val {
				fields[k] = "true"
			} else {
				fields[k] = "false"
			}
		case nil:
			fields[k] = ""
		default:
			return nil, errors.MalformedPayloadErr(errors.E(errors.Invalid, "non-scalar value for field "+k))
		}
	}
	return fields, nil
}

type markupReply struct {
	XMLName xml.Name `xml:"COMMAND"`
	Status  string   `xml:"STATUS"`
	Message string   `xml:"MESSAGE"`
}

// EncodeReply renders a reply in the given format. The markup shape carries
// exactly STATUS and MESSAGE and never extra data; the JSON shape carries
// status, message and transactionId, with extras merged in only on success.
func EncodeReply(format Format, reply models.Reply) ([]byte, error) {
	if format == FormatXML {
		return xml.Marshal(markupReply{Status: reply.Status, Message: reply.Message})
	}

	obj := map[string]any{
		"status":        reply.Status,
		"message":       reply.Message,
		"transactionId": reply.TransactionID,
	}
	if reply.Status == models.ReplySuccess {
		for k, v := range reply.Extra {
			obj[k] = v
		}
	}
	return json.Marshal(obj)
}
