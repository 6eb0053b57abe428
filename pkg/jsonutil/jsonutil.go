// Package jsonutil provides JSON helpers for shaping tool input and output.
package jsonutil

import (
	"bytes"
	"encoding/json"
)

// ToJSON returns the value as a compact JSON string.
func ToJSON(v any) string {
	bs, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(bs)
}

// ToJSONIndent returns the value as tab-indented JSON.
func ToJSONIndent(v any) []byte {
	bs, err := json.MarshalIndent(v, "", "\t")
	if err != nil {
		return nil
	}
	return bs
}

// CleanJSON trims any prefix before and postfix after the JSON body.
// Model-produced tool input often arrives wrapped in prose or backticks,
// like "Here you go: {…}".
func CleanJSON(bs []byte) []byte {
	return trimPostfixAfterJSON(trimPrefixBeforeJSON(bs))
}

func trimPrefixBeforeJSON(bs []byte) []byte {
	startObject := bytes.IndexByte(bs, '{')
	startArray := bytes.IndexByte(bs, '[')

	var start int
	switch {
	case startObject == -1 && startArray == -1:
		return bs
	case startObject == -1:
		start = startArray
	case startArray == -1:
		start = startObject
	default:
		start = min(startObject, startArray)
	}
	return bs[start:]
}

func trimPostfixAfterJSON(bs []byte) []byte {
	endObject := bytes.LastIndexByte(bs, '}')
	endArray := bytes.LastIndexByte(bs, ']')

	var end int
	switch {
	case endObject == -1 && endArray == -1:
		return bs
	case endObject == -1:
		end = endArray
	case endArray == -1:
		end = endObject
	default:
		end = max(endObject, endArray)
	}
	return bs[:end+1]
}
