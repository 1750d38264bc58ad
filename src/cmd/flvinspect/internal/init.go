package internal

import (
	// import all parsers
	_ "github.com/yuhaohwang/flv-inspector/src/pkg/parser/native/flv"
)
