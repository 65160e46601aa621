package profile

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"unicode"

	"github.com/xeipuuv/gojsonschema"
)

// ErrInvalidPayload is returned when the nested body is absent or is not a
// JSON object of the expected shape.
var ErrInvalidPayload = errors.New("invalid payload")

const payloadSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "email":    {"type": ["string", "null"]},
    "metadata": {}
  }
}`

var compiledSchema = sync.OnceValues(func() (*gojsonschema.Schema, error) {
	return gojsonschema.NewSchema(gojsonschema.NewStringLoader(payloadSchema))
})

// aliases lists the metadata keys accepted for each canonical field, in
// normalized form (lower case, letters and digits only).
var aliases = map[string][]string{
	FieldAge:              {"age", "userage", "ageyears", "years"},
	FieldGender:           {"gender", "sex"},
	FieldHeight:           {"height", "heightcm", "heightincm"},
	FieldWeight:           {"weight", "weightkg", "weightinkg", "bodyweight"},
	FieldDosha:            {"dosha", "doshatype", "prakriti", "prakruti", "bodytype", "constitution"},
	FieldDisease:          {"disease", "diseases", "condition", "primarycondition", "primarydisease", "healthcondition", "medicalcondition"},
	FieldSecondaryDisease: {"secondarydisease", "secondarycondition", "otherdisease", "othercondition"},
	FieldWater:            {"water", "waterintake", "dailywaterintake", "waterliters", "waterintakeliters"},
	FieldBMI:              {"bmi", "bodymassindex"},
	FieldSleep:            {"sleep", "sleepquality", "sleeppattern"},
	FieldAppetite:         {"appetite", "hunger"},
	FieldLocation:         {"location", "city", "place", "address"},
	FieldLatitude:         {"latitude", "lat"},
	FieldLongitude:        {"longitude", "lon", "lng", "long"},
	FieldEmail:            {"email", "emailaddress", "mail"},
}

type nodePayload struct {
	Email    *string `json:"email"`
	Metadata any     `json:"metadata"`
}

// FromNodePayload builds an Input from a `{email, metadata}` JSON body. A
// top-level email wins over one found inside metadata.
func FromNodePayload(body []byte) (Input, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return Input{}, fmt.Errorf("%w: empty body", ErrInvalidPayload)
	}

	schema, err := compiledSchema()
	if err != nil {
		return Input{}, fmt.Errorf("compile payload schema: %w", err)
	}
	res, err := schema.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		return Input{}, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	if !res.Valid() {
		msgs := make([]string, 0, len(res.Errors()))
		for _, e := range res.Errors() {
			msgs = append(msgs, e.String())
		}
		return Input{}, fmt.Errorf("%w: %s", ErrInvalidPayload, strings.Join(msgs, "; "))
	}

	var p nodePayload
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(&p); err != nil {
		return Input{}, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}

	raw := make(map[string]string, len(aliases))
	for field, keys := range aliases {
		if v, ok := lookup(p.Metadata, keys); ok {
			raw[field] = v
		}
	}
	if p.Email != nil && strings.TrimSpace(*p.Email) != "" {
		raw[FieldEmail] = *p.Email
	}
	return build(raw), nil
}

// NormalizeKey lower-cases k and drops everything but letters and digits, so
// "Sleep_Quality", "sleep-quality" and "sleepQuality" compare equal.
func NormalizeKey(k string) string {
	var b strings.Builder
	b.Grow(len(k))
	for _, r := range k {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return b.String()
}

// lookup searches v depth-first for the first key matching one of keys.
// Keys on the current level are preferred over nested ones; nested objects
// are visited in sorted key order so the result is deterministic.
func lookup(v any, keys []string) (string, bool) {
	switch node := v.(type) {
	case map[string]any:
		names := make([]string, 0, len(node))
		for k := range node {
			names = append(names, k)
		}
		sort.Strings(names)

		for _, want := range keys {
			for _, k := range names {
				if NormalizeKey(k) != want {
					continue
				}
				if s, ok := scalar(node[k]); ok {
					return s, true
				}
			}
		}
		for _, k := range names {
			if s, ok := lookup(node[k], keys); ok {
				return s, true
			}
		}
	case []any:
		for _, item := range node {
			if s, ok := lookup(item, keys); ok {
				return s, true
			}
		}
	}
	return "", false
}

// scalar renders a leaf value as text. Lists of scalars are joined with ", ".
func scalar(v any) (string, bool) {
	switch x := v.(type) {
	case string:
		s := strings.TrimSpace(x)
		return s, s != ""
	case json.Number:
		return x.String(), true
	case float64:
		return fmt.Sprint(x), true
	case []any:
		parts := make([]string, 0, len(x))
		for _, item := range x {
			switch item.(type) {
			case string, json.Number, float64:
				if s, ok := scalar(item); ok {
					parts = append(parts, s)
				}
			}
		}
		if len(parts) == 0 {
			return "", false
		}
		return strings.Join(parts, ", "), true
	}
	return "", false
}
