package flv

// Bits 取出 b 中从 start 位（最低位为 0）开始、宽度为 width 的无符号位段 UB[width]。
func Bits(b uint8, start, width uint8) uint8 {
	return (b >> start) & (uint8(1)<<width - 1)
}
