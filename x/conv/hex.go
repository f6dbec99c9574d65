package conv

const hexd = "0123456789ABCDEF"

// U8Hex renders a register byte as "0xNN".
func U8Hex(n uint8) string {
	return string([]byte{'0', 'x', hexd[n>>4], hexd[n&0xF]})
}
