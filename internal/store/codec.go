package store

import (
	jsoniter "github.com/json-iterator/go"
)

// JSON encodes and decodes stored documents. It keeps encoding/json
// semantics: struct tags are honoured and numbers decode as float64.
var JSON = jsoniter.ConfigCompatibleWithStandardLibrary
