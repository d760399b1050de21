package codec

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	"triggerOracle/internal/model"
)

// MetadataURIPrefix prefixes every metadata data URI.
const MetadataURIPrefix = "data:application/json;base64,"

// MetadataURI serializes metadata into a base64 JSON data URI.
func MetadataURI(meta model.NFTMetadata) (string, error) {
	if meta.Attributes == nil {
		meta.Attributes = []model.Attribute{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(meta); err != nil {
		return "", fmt.Errorf("%w: %v", model.ErrSerializationFailed, err)
	}
	doc := bytes.TrimSuffix(buf.Bytes(), []byte("\n"))

	return MetadataURIPrefix + base64.StdEncoding.EncodeToString(doc), nil
}

// DecodeMetadataURI parses a data URI produced by MetadataURI.
func DecodeMetadataURI(uri string) (model.NFTMetadata, error) {
	if !strings.HasPrefix(uri, MetadataURIPrefix) {
		return model.NFTMetadata{}, fmt.Errorf("%w: missing data uri prefix", model.ErrMalformedPayload)
	}
	doc, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(uri, MetadataURIPrefix))
	if err != nil {
		return model.NFTMetadata{}, fmt.Errorf("%w: base64: %v", model.ErrMalformedPayload, err)
	}

	var meta model.NFTMetadata
	if err := json.Unmarshal(doc, &meta); err != nil {
		return model.NFTMetadata{}, fmt.Errorf("%w: metadata json: %v", model.ErrMalformedPayload, err)
	}
	return meta, nil
}
