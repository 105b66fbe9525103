package main

import (
	"encoding/json"
	"encoding/pem"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/coinbase/rsakey-go/pkg/rsakey"
	"github.com/coinbase/rsakey-go/pkg/rsakey/keyblob"
)

const (
	formatJSON = "json"
	formatXML  = "xml"
	formatBlob = "blob"
)

// resolveFormat returns flag when set, otherwise a format guessed from the
// file extension, defaulting to JSON.
func resolveFormat(flag, path string) (string, error) {
	if flag != "" {
		switch f := strings.ToLower(flag); f {
		case formatJSON, formatXML, formatBlob:
			return f, nil
		default:
			return "", fmt.Errorf("unknown format %q (want json, xml or blob)", flag)
		}
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xml":
		return formatXML, nil
	case ".blob", ".bin":
		return formatBlob, nil
	default:
		return formatJSON, nil
	}
}

func encodeParams(p *rsakey.Parameters, format string) ([]byte, error) {
	switch format {
	case formatJSON:
		if err := p.Validate(); err != nil {
			return nil, err
		}
		b, err := json.MarshalIndent(p, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(b, '\n'), nil
	case formatXML:
		return keyblob.MarshalXML(p)
	case formatBlob:
		if p.HasPrivate() {
			return keyblob.MarshalPrivateBlob(p)
		}
		return keyblob.MarshalPublicBlob(p)
	default:
		return nil, fmt.Errorf("unknown format %q", format)
	}
}

func decodeParams(data []byte, format string) (*rsakey.Parameters, error) {
	switch format {
	case formatJSON:
		var p rsakey.Parameters
		if err := json.Unmarshal(data, &p); err != nil {
			return nil, fmt.Errorf("failed to decode parameters: %w", err)
		}
		return &p, nil
	case formatXML:
		return keyblob.ParseXML(data)
	case formatBlob:
		return keyblob.ParseBlob(data)
	default:
		return nil, fmt.Errorf("unknown format %q", format)
	}
}

// publicKeyDER accepts DER or a PEM "RSA PUBLIC KEY" or "PUBLIC KEY" block.
func publicKeyDER(data []byte) ([]byte, error) {
	block, _ := pem.Decode(data)
	if block == nil {
		return data, nil
	}
	switch block.Type {
	case "RSA PUBLIC KEY", "PUBLIC KEY":
		return block.Bytes, nil
	default:
		return nil, fmt.Errorf("unexpected PEM block %q", block.Type)
	}
}
