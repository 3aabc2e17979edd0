package ipod

// Checksum 计算 iPod 帧校验和：0x100 减去累加和低8位，再减去初始累加值 crc，结果取低8位。
// 合法帧中从 length 字节到校验字节（含）的累加和模256为0。
func Checksum(data []byte, crc byte) byte {
	var sum byte
	for _, b := range data {
		sum += b
	}
	return byte(0x100 - int(sum) - int(crc))
}

// ChecksumRange 对 b[start:end] 计算校验和，end 为负数时从尾部倒数（-1 表示不含最后一个字节）
func ChecksumRange(b []byte, start, end int, crc byte) byte {
	if end < 0 {
		end += len(b)
	}
	if start < 0 || end > len(b) || start > end {
		return Checksum(nil, crc)
	}
	return Checksum(b[start:end], crc)
}

// ValidChecksum 校验完整帧的最后一个字节（覆盖范围：length 字节至校验字节之前）
func ValidChecksum(frame []byte) bool {
	if len(frame) < headerLen+1 {
		return false
	}
	return frame[len(frame)-1] == ChecksumRange(frame, checksumStart, -1, 0)
}
