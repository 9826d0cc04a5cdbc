package dumps

import (
	"encoding/base64"
	"unicode/utf8"
)

// appendBytes renders b under mode. The returned error carries no path; the
// encoder fills it in.
func appendBytes(dst, b []byte, mode BytesMode) ([]byte, *Error) {
	switch mode {
	case BytesUTF8:
		if i := invalidUTF8(b); i >= 0 {
			return dst, newError(CodeInvalidByteEncoding, "", "invalid UTF-8 sequence at byte %d", i)
		}
		return appendString(dst, string(b)), nil
	case BytesASCII:
		for i, c := range b {
			if c >= utf8.RuneSelf {
				return dst, newError(CodeInvalidByteEncoding, "", "non-ASCII byte 0x%02x at byte %d", c, i)
			}
		}
		return appendString(dst, string(b)), nil
	case BytesBase64:
		dst = append(dst, '"')
		dst = append(dst, base64.StdEncoding.EncodeToString(b)...)
		return append(dst, '"'), nil
	}
	return dst, newError(CodeUnsupportedBytes, "", "bytes are not serializable (%d bytes); choose a bytes mode", len(b))
}

// invalidUTF8 returns the offset of the first invalid sequence or -1.
func invalidUTF8(b []byte) int {
	for i := 0; i < len(b); {
		r, size := utf8.DecodeRune(b[i:])
		if r == utf8.RuneError && size <= 1 {
			return i
		}
		i += size
	}
	return -1
}
