package enoch

// This file is a direct port of 9front's libsec/port/des.c, including its
// non-standard byte interleaving in the initial and final permutations.
// Standard DES implementations do not interoperate with it. p9sk1 keys
// these routines with a 7-byte (56-bit) secret expanded to a conventional
// 8-byte DES key, and encrypts data in 7-byte strides rather than 8-byte
// blocks.

// parityTable is 9front's parity lookup table from des.c.
var parityTable = [128]byte{
	0x01, 0x02, 0x04, 0x07, 0x08, 0x0b, 0x0d, 0x0e,
	0x10, 0x13, 0x15, 0x16, 0x19, 0x1a, 0x1c, 0x1f,
	0x20, 0x23, 0x25, 0x26, 0x29, 0x2a, 0x2c, 0x2f,
	0x31, 0x32, 0x34, 0x37, 0x38, 0x3b, 0x3d, 0x3e,
	0x40, 0x43, 0x45, 0x46, 0x49, 0x4a, 0x4c, 0x4f,
	0x51, 0x52, 0x54, 0x57, 0x58, 0x5b, 0x5d, 0x5e,
	0x61, 0x62, 0x64, 0x67, 0x68, 0x6b, 0x6d, 0x6e,
	0x70, 0x73, 0x75, 0x76, 0x79, 0x7a, 0x7c, 0x7f,
	0x80, 0x83, 0x85, 0x86, 0x89, 0x8a, 0x8c, 0x8f,
	0x91, 0x92, 0x94, 0x97, 0x98, 0x9b, 0x9d, 0x9e,
	0xa1, 0xa2, 0xa4, 0xa7, 0xa8, 0xab, 0xad, 0xae,
	0xb0, 0xb3, 0xb5, 0xb6, 0xb9, 0xba, 0xbc, 0xbf,
	0xc1, 0xc2, 0xc4, 0xc7, 0xc8, 0xcb, 0xcd, 0xce,
	0xd0, 0xd3, 0xd5, 0xd6, 0xd9, 0xda, 0xdc, 0xdf,
	0xe0, 0xe3, 0xe5, 0xe6, 0xe9, 0xea, 0xec, 0xef,
	0xf1, 0xf2, 0xf4, 0xf7, 0xf8, 0xfb, 0xfd, 0xfe,
}

// spBox is 9front's integrated S-box and P permutation table from des.c.
var spBox = [512]uint32{
	0x00808200, 0x00000000, 0x00008000, 0x00808202, 0x00808002, 0x00008202, 0x00000002, 0x00008000,
	0x00000200, 0x00808200, 0x00808202, 0x00000200, 0x00800202, 0x00808002, 0x00800000, 0x00000002,
	0x00000202, 0x00800200, 0x00800200, 0x00008200, 0x00008200, 0x00808000, 0x00808000, 0x00800202,
	0x00008002, 0x00800002, 0x00800002, 0x00008002, 0x00000000, 0x00000202, 0x00008202, 0x00800000,
	0x00008000, 0x00808202, 0x00000002, 0x00808000, 0x00808200, 0x00800000, 0x00800000, 0x00000200,
	0x00808002, 0x00008000, 0x00008200, 0x00800002, 0x00000200, 0x00000002, 0x00800202, 0x00008202,
	0x00808202, 0x00008002, 0x00808000, 0x00800202, 0x00800002, 0x00000202, 0x00008202, 0x00808200,
	0x00000202, 0x00800200, 0x00800200, 0x00000000, 0x00008002, 0x00008200, 0x00000000, 0x00808002,

	0x40084010, 0x40004000, 0x00004000, 0x00084010, 0x00080000, 0x00000010, 0x40080010, 0x40004010,
	0x40000010, 0x40084010, 0x40084000, 0x40000000, 0x40004000, 0x00080000, 0x00000010, 0x40080010,
	0x00084000, 0x00080010, 0x40004010, 0x00000000, 0x40000000, 0x00004000, 0x00084010, 0x40080000,
	0x00080010, 0x40000010, 0x00000000, 0x00084000, 0x00004010, 0x40084000, 0x40080000, 0x00004010,
	0x00000000, 0x00084010, 0x40080010, 0x00080000, 0x40004010, 0x40080000, 0x40084000, 0x00004000,
	0x40080000, 0x40004000, 0x00000010, 0x40084010, 0x00084010, 0x00000010, 0x00004000, 0x40000000,
	0x00004010, 0x40084000, 0x00080000, 0x40000010, 0x00080010, 0x40004010, 0x40000010, 0x00080010,
	0x00084000, 0x00000000, 0x40004000, 0x00004010, 0x40000000, 0x40080010, 0x40084010, 0x00084000,

	0x00000104, 0x04010100, 0x00000000, 0x04010004, 0x04000100, 0x00000000, 0x00010104, 0x04000100,
	0x00010004, 0x04000004, 0x04000004, 0x00010000, 0x04010104, 0x00010004, 0x04010000, 0x00000104,
	0x04000000, 0x00000004, 0x04010100, 0x00000100, 0x00010100, 0x04010000, 0x04010004, 0x00010104,
	0x04000104, 0x00010100, 0x00010000, 0x04000104, 0x00000004, 0x04010104, 0x00000100, 0x04000000,
	0x04010100, 0x04000000, 0x00010004, 0x00000104, 0x00010000, 0x04010100, 0x04000100, 0x00000000,
	0x00000100, 0x00010004, 0x04010104, 0x04000100, 0x04000004, 0x00000100, 0x00000000, 0x04010004,
	0x04000104, 0x00010000, 0x04000000, 0x04010104, 0x00000004, 0x00010104, 0x00010100, 0x04000004,
	0x04010000, 0x04000104, 0x00000104, 0x04010000, 0x00010104, 0x00000004, 0x04010004, 0x00010100,

	0x80401000, 0x80001040, 0x80001040, 0x00000040, 0x00401040, 0x80400040, 0x80400000, 0x80001000,
	0x00000000, 0x00401000, 0x00401000, 0x80401040, 0x80000040, 0x00000000, 0x00400040, 0x80400000,
	0x80000000, 0x00001000, 0x00400000, 0x80401000, 0x00000040, 0x00400000, 0x80001000, 0x00001040,
	0x80400040, 0x80000000, 0x00001040, 0x00400040, 0x00001000, 0x00401040, 0x80401040, 0x80000040,
	0x00400040, 0x80400000, 0x00401000, 0x80401040, 0x80000040, 0x00000000, 0x00000000, 0x00401000,
	0x00001040, 0x00400040, 0x80400040, 0x80000000, 0x80401000, 0x80001040, 0x80001040, 0x00000040,
	0x80401040, 0x80000040, 0x80000000, 0x00001000, 0x80400000, 0x80001000, 0x00401040, 0x80400040,
	0x80001000, 0x00001040, 0x00400000, 0x80401000, 0x00000040, 0x00400000, 0x00001000, 0x00401040,

	0x00000080, 0x01040080, 0x01040000, 0x21000080, 0x00040000, 0x00000080, 0x20000000, 0x01040000,
	0x20040080, 0x00040000, 0x01000080, 0x20040080, 0x21000080, 0x21040000, 0x00040080, 0x20000000,
	0x01000000, 0x20040000, 0x20040000, 0x00000000, 0x20000080, 0x21040080, 0x21040080, 0x01000080,
	0x21040000, 0x20000080, 0x00000000, 0x21000000, 0x01040080, 0x01000000, 0x21000000, 0x00040080,
	0x00040000, 0x21000080, 0x00000080, 0x01000000, 0x20000000, 0x01040000, 0x21000080, 0x20040080,
	0x01000080, 0x20000000, 0x21040000, 0x01040080, 0x20040080, 0x00000080, 0x01000000, 0x21040000,
	0x21040080, 0x00040080, 0x21000000, 0x21040080, 0x01040000, 0x00000000, 0x20040000, 0x21000000,
	0x00040080, 0x01000080, 0x20000080, 0x00040000, 0x00000000, 0x20040000, 0x01040080, 0x20000080,

	0x10000008, 0x10200000, 0x00002000, 0x10202008, 0x10200000, 0x00000008, 0x10202008, 0x00200000,
	0x10002000, 0x00202008, 0x00200000, 0x10000008, 0x00200008, 0x10002000, 0x10000000, 0x00002008,
	0x00000000, 0x00200008, 0x10002008, 0x00002000, 0x00202000, 0x10002008, 0x00000008, 0x10200008,
	0x10200008, 0x00000000, 0x00202008, 0x10202000, 0x00002008, 0x00202000, 0x10202000, 0x10000000,
	0x10002000, 0x00000008, 0x10200008, 0x00202000, 0x10202008, 0x00200000, 0x00002008, 0x10000008,
	0x00200000, 0x10002000, 0x10000000, 0x00002008, 0x10000008, 0x10202008, 0x00202000, 0x10200000,
	0x00202008, 0x10202000, 0x00000000, 0x10200008, 0x00000008, 0x00002000, 0x10200000, 0x00202008,
	0x00002000, 0x00200008, 0x10002008, 0x00000000, 0x10202000, 0x10000000, 0x00200008, 0x10002008,

	0x00100000, 0x02100001, 0x02000401, 0x00000000, 0x00000400, 0x02000401, 0x00100401, 0x02100400,
	0x02100401, 0x00100000, 0x00000000, 0x02000001, 0x00000001, 0x02000000, 0x02100001, 0x00000401,
	0x02000400, 0x00100401, 0x00100001, 0x02000400, 0x02000001, 0x02100000, 0x02100400, 0x00100001,
	0x02100000, 0x00000400, 0x00000401, 0x02100401, 0x00100400, 0x00000001, 0x02000000, 0x00100400,
	0x02000000, 0x00100400, 0x00100000, 0x02000401, 0x02000401, 0x02100001, 0x02100001, 0x00000001,
	0x00100001, 0x02000000, 0x02000400, 0x00100000, 0x02100400, 0x00000401, 0x00100401, 0x02100400,
	0x00000401, 0x02000001, 0x02100401, 0x02100000, 0x00100400, 0x00000000, 0x00000001, 0x02100401,
	0x00000000, 0x00100401, 0x02100000, 0x00000400, 0x02000001, 0x02000400, 0x00000400, 0x00100001,

	0x08000820, 0x00000800, 0x00020000, 0x08020820, 0x08000000, 0x08000820, 0x00000020, 0x08000000,
	0x00020020, 0x08020000, 0x08020820, 0x00020800, 0x08020800, 0x00020820, 0x00000800, 0x00000020,
	0x08020000, 0x08000020, 0x08000800, 0x00000820, 0x00020800, 0x00020020, 0x08020020, 0x08020800,
	0x00000820, 0x00000000, 0x00000000, 0x08020020, 0x08000020, 0x08000800, 0x00020820, 0x00020000,
	0x00020820, 0x00020000, 0x08020800, 0x00000800, 0x00000020, 0x08020020, 0x00000800, 0x00020820,
	0x08000800, 0x00000020, 0x08000020, 0x08020000, 0x08020020, 0x08000000, 0x00020000, 0x08000820,
	0x00000000, 0x08020820, 0x00020020, 0x08000020, 0x08020000, 0x08000800, 0x08000820, 0x00000000,
	0x08020820, 0x00020800, 0x00020800, 0x00000820, 0x00000820, 0x00020020, 0x08000000, 0x08020800,
}

// compTab is the key compression permutation table from des.c.
var compTab = [224]uint32{
	0x000000, 0x010000, 0x000008, 0x010008, 0x000080, 0x010080, 0x000088, 0x010088,
	0x000000, 0x010000, 0x000008, 0x010008, 0x000080, 0x010080, 0x000088, 0x010088,

	0x000000, 0x100000, 0x000800, 0x100800, 0x000000, 0x100000, 0x000800, 0x100800,
	0x002000, 0x102000, 0x002800, 0x102800, 0x002000, 0x102000, 0x002800, 0x102800,

	0x000000, 0x000004, 0x000400, 0x000404, 0x000000, 0x000004, 0x000400, 0x000404,
	0x400000, 0x400004, 0x400400, 0x400404, 0x400000, 0x400004, 0x400400, 0x400404,

	0x000000, 0x000020, 0x008000, 0x008020, 0x800000, 0x800020, 0x808000, 0x808020,
	0x000002, 0x000022, 0x008002, 0x008022, 0x800002, 0x800022, 0x808002, 0x808022,

	0x000000, 0x000200, 0x200000, 0x200200, 0x001000, 0x001200, 0x201000, 0x201200,
	0x000000, 0x000200, 0x200000, 0x200200, 0x001000, 0x001200, 0x201000, 0x201200,

	0x000000, 0x000040, 0x000010, 0x000050, 0x004000, 0x004040, 0x004010, 0x004050,
	0x040000, 0x040040, 0x040010, 0x040050, 0x044000, 0x044040, 0x044010, 0x044050,

	0x000000, 0x000100, 0x020000, 0x020100, 0x000001, 0x000101, 0x020001, 0x020101,
	0x080000, 0x080100, 0x0a0000, 0x0a0100, 0x080001, 0x080101, 0x0a0001, 0x0a0101,

	0x000000, 0x000100, 0x040000, 0x040100, 0x000000, 0x000100, 0x040000, 0x040100,
	0x000040, 0x000140, 0x040040, 0x040140, 0x000040, 0x000140, 0x040040, 0x040140,

	0x000000, 0x400000, 0x008000, 0x408000, 0x000008, 0x400008, 0x008008, 0x408008,
	0x000400, 0x400400, 0x008400, 0x408400, 0x000408, 0x400408, 0x008408, 0x408408,

	0x000000, 0x001000, 0x080000, 0x081000, 0x000020, 0x001020, 0x080020, 0x081020,
	0x004000, 0x005000, 0x084000, 0x085000, 0x004020, 0x005020, 0x084020, 0x085020,

	0x000000, 0x000800, 0x000000, 0x000800, 0x000010, 0x000810, 0x000010, 0x000810,
	0x800000, 0x800800, 0x800000, 0x800800, 0x800010, 0x800810, 0x800010, 0x800810,

	0x000000, 0x010000, 0x000200, 0x010200, 0x000000, 0x010000, 0x000200, 0x010200,
	0x100000, 0x110000, 0x100200, 0x110200, 0x100000, 0x110000, 0x100200, 0x110200,

	0x000000, 0x000004, 0x000000, 0x000004, 0x000080, 0x000084, 0x000080, 0x000084,
	0x002000, 0x002004, 0x002000, 0x002004, 0x002080, 0x002084, 0x002080, 0x002084,

	0x000000, 0x000001, 0x200000, 0x200001, 0x020000, 0x020001, 0x220000, 0x220001,
	0x000002, 0x000003, 0x200002, 0x200003, 0x020002, 0x020003, 0x220002, 0x220003,
}

// keySh is the key shift schedule.
var keySh = [16]uint{1, 1, 2, 2, 2, 2, 2, 2, 1, 2, 2, 2, 2, 2, 2, 1}

// expandKey expands a 7-byte Plan 9 DES key to an 8-byte standard DES key,
// matching 9front's des56to64() exactly.
func expandKey(key7 [7]byte) [8]byte {
	var key8 [8]byte

	hi := uint32(key7[0])<<24 | uint32(key7[1])<<16 | uint32(key7[2])<<8 | uint32(key7[3])
	lo := uint32(key7[4])<<24 | uint32(key7[5])<<16 | uint32(key7[6])<<8

	key8[0] = parityTable[(hi>>25)&0x7f]
	key8[1] = parityTable[(hi>>18)&0x7f]
	key8[2] = parityTable[(hi>>11)&0x7f]
	key8[3] = parityTable[(hi>>4)&0x7f]
	key8[4] = parityTable[((hi<<3)|(lo>>29))&0x7f]
	key8[5] = parityTable[(lo>>22)&0x7f]
	key8[6] = parityTable[(lo>>15)&0x7f]
	key8[7] = parityTable[(lo>>8)&0x7f]

	return key8
}

// desKeySetup is 9front's DES key schedule generation (des_key_setup).
func desKeySetup(key [8]byte) [32]uint32 {
	var ek [32]uint32

	v0 := uint32(key[0]) | uint32(key[2])<<8 | uint32(key[4])<<16 | uint32(key[6])<<24
	v1 := uint32(key[1]) | uint32(key[3])<<8 | uint32(key[5])<<16 | uint32(key[7])<<24

	left := ((v0 >> 1) & 0x40404040) |
		((v0 >> 2) & 0x10101010) |
		((v0 >> 3) & 0x04040404) |
		((v0 >> 4) & 0x01010101) |
		((v1 >> 0) & 0x80808080) |
		((v1 >> 1) & 0x20202020) |
		((v1 >> 2) & 0x08080808) |
		((v1 >> 3) & 0x02020202)

	right := ((v0 >> 1) & 0x04040404) |
		((v0 << 2) & 0x10101010) |
		((v0 << 5) & 0x40404040) |
		((v1 << 0) & 0x08080808) |
		((v1 << 3) & 0x20202020) |
		((v1 << 6) & 0x80808080)

	left = ((left << 6) & 0x33003300) | (left & 0xcc33cc33) | ((left >> 6) & 0x00cc00cc)
	v0 = ((left << 12) & 0x0f0f0000) | (left & 0xf0f00f0f) | ((left >> 12) & 0x0000f0f0)

	right = ((right << 6) & 0x33003300) | (right & 0xcc33cc33) | ((right >> 6) & 0x00cc00cc)
	v1 = ((right << 12) & 0x0f0f0000) | (right & 0xf0f00f0f) | ((right >> 12) & 0x0000f0f0)

	left = v0 & 0xfffffff0
	right = (v1 & 0xffffff00) | ((v0 << 4) & 0xf0)

	keyCompPerm(left, right, &ek)
	return ek
}

func keyCompPerm(left, right uint32, ek *[32]uint32) {
	ekIdx := 0
	for i := 0; i < 16; i++ {
		sh := keySh[i]
		left = ((left << sh) | (left >> (28 - sh))) & 0xfffffff0
		right = ((right << sh) | (right >> (28 - sh))) & 0xfffffff0

		v0 := compTab[6*16+((left>>28)&0xf)] |
			compTab[5*16+((left>>24)&0xf)] |
			compTab[4*16+((left>>20)&0xf)] |
			compTab[3*16+((left>>16)&0xf)] |
			compTab[2*16+((left>>12)&0xf)] |
			compTab[1*16+((left>>8)&0xf)] |
			compTab[0*16+((left>>4)&0xf)]

		v1 := compTab[13*16+((right>>28)&0xf)] |
			compTab[12*16+((right>>24)&0xf)] |
			compTab[11*16+((right>>20)&0xf)] |
			compTab[10*16+((right>>16)&0xf)] |
			compTab[9*16+((right>>12)&0xf)] |
			compTab[8*16+((right>>8)&0xf)] |
			compTab[7*16+((right>>4)&0xf)]

		ek[ekIdx] = (((v0 >> 18) & 0x3f) << 26) |
			(((v0 >> 6) & 0x3f) << 18) |
			(((v1 >> 18) & 0x3f) << 10) |
			(((v1 >> 6) & 0x3f) << 2)
		ek[ekIdx+1] = (((v0 >> 12) & 0x3f) << 26) |
			(((v0 >> 0) & 0x3f) << 18) |
			(((v1 >> 12) & 0x3f) << 10) |
			(((v1 >> 0) & 0x3f) << 2)
		ekIdx += 2
	}
}

// blockCipher is 9front's DES block cipher (block_cipher from des.c). It
// encrypts or decrypts 8 bytes in place at the given offset using 9front's
// byte-interleaved permutations.
func blockCipher(key [32]uint32, text []byte, offset int, decrypting bool) {
	v0 := uint32(text[offset]) | uint32(text[offset+2])<<8 | uint32(text[offset+4])<<16 | uint32(text[offset+6])<<24
	leftInit := uint32(text[offset+1]) | uint32(text[offset+3])<<8 | uint32(text[offset+5])<<16 | uint32(text[offset+7])<<24

	right := (leftInit & 0xaaaaaaaa) | ((v0 >> 1) & 0x55555555)
	left := ((leftInit << 1) & 0xaaaaaaaa) | (v0 & 0x55555555)

	left = ((left << 6) & 0x33003300) | (left & 0xcc33cc33) | ((left >> 6) & 0x00cc00cc)
	left = ((left << 12) & 0x0f0f0000) | (left & 0xf0f00f0f) | ((left >> 12) & 0x0000f0f0)
	right = ((right << 6) & 0x33003300) | (right & 0xcc33cc33) | ((right >> 6) & 0x00cc00cc)
	right = ((right << 12) & 0x0f0f0000) | (right & 0xf0f00f0f) | ((right >> 12) & 0x0000f0f0)

	var keyIdx, keyStep int32
	if decrypting {
		keyIdx, keyStep = 30, -2
	} else {
		keyIdx, keyStep = 0, 2
	}

	for round := 0; round < 8; round++ {
		v0 := key[keyIdx] ^ ((right >> 1) | (right << 31))
		left ^= spBox[0*64+((v0>>26)&0x3f)] ^
			spBox[2*64+((v0>>18)&0x3f)] ^
			spBox[4*64+((v0>>10)&0x3f)] ^
			spBox[6*64+((v0>>2)&0x3f)]

		v1 := key[keyIdx+1] ^ ((right << 3) | (right >> 29))
		left ^= spBox[1*64+((v1>>26)&0x3f)] ^
			spBox[3*64+((v1>>18)&0x3f)] ^
			spBox[5*64+((v1>>10)&0x3f)] ^
			spBox[7*64+((v1>>2)&0x3f)]
		keyIdx += keyStep

		v0 = key[keyIdx] ^ ((left >> 1) | (left << 31))
		right ^= spBox[0*64+((v0>>26)&0x3f)] ^
			spBox[2*64+((v0>>18)&0x3f)] ^
			spBox[4*64+((v0>>10)&0x3f)] ^
			spBox[6*64+((v0>>2)&0x3f)]

		v1 = key[keyIdx+1] ^ ((left << 3) | (left >> 29))
		right ^= spBox[1*64+((v1>>26)&0x3f)] ^
			spBox[3*64+((v1>>18)&0x3f)] ^
			spBox[5*64+((v1>>10)&0x3f)] ^
			spBox[7*64+((v1>>2)&0x3f)]
		keyIdx += keyStep
	}

	v0 = ((left << 1) & 0xaaaaaaaa) | (right & 0x55555555)
	v1Final := (left & 0xaaaaaaaa) | ((right >> 1) & 0x55555555)

	v1Final = ((v1Final << 6) & 0x33003300) | (v1Final & 0xcc33cc33) | ((v1Final >> 6) & 0x00cc00cc)
	v1Final = ((v1Final << 12) & 0x0f0f0000) | (v1Final & 0xf0f00f0f) | ((v1Final >> 12) & 0x0000f0f0)
	v0 = ((v0 << 6) & 0x33003300) | (v0 & 0xcc33cc33) | ((v0 >> 6) & 0x00cc00cc)
	v0 = ((v0 << 12) & 0x0f0f0000) | (v0 & 0xf0f00f0f) | ((v0 >> 12) & 0x0000f0f0)

	text[offset] = byte(v0)
	text[offset+2] = byte(v0 >> 8)
	text[offset+4] = byte(v0 >> 16)
	text[offset+6] = byte(v0 >> 24)
	text[offset+1] = byte(v1Final)
	text[offset+3] = byte(v1Final >> 8)
	text[offset+5] = byte(v1Final >> 16)
	text[offset+7] = byte(v1Final >> 24)
}

// plan9Encrypt encrypts data in place using Plan 9's non-standard 7-byte
// stride DES, keyed by a 7-byte secret. Inputs shorter than 8 bytes are left
// untouched, matching 9front's own behavior.
func plan9Encrypt(key [7]byte, data []byte) {
	if len(data) < 8 {
		return
	}

	ekey := desKeySetup(expandKey(key))

	n := (len(data) - 1) / 7
	r := (len(data) - 1) % 7

	pos := 0
	for i := 0; i < n; i++ {
		blockCipher(ekey, data, pos, false)
		pos += 7
	}

	if r > 0 {
		finalPos := pos - 7 + r
		blockCipher(ekey, data, finalPos, false)
	}
}

// plan9Decrypt decrypts data in place using Plan 9's non-standard 7-byte
// stride DES, keyed by a 7-byte secret.
func plan9Decrypt(key [7]byte, data []byte) {
	if len(data) < 8 {
		return
	}

	ekey := desKeySetup(expandKey(key))

	n := (len(data) - 1) / 7
	r := (len(data) - 1) % 7

	if r > 0 {
		finalPos := n*7 - 7 + r
		blockCipher(ekey, data, finalPos, true)
	}

	pos := (n - 1) * 7
	for i := 0; i < n; i++ {
		blockCipher(ekey, data, pos, true)
		if pos >= 7 {
			pos -= 7
		} else {
			break
		}
	}
}
