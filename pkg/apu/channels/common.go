package channels

// LengthTable maps a 5-bit length-counter load value (from bits 3-7
// of $4003/$4007/$400B/$400F) to the actual countdown value loaded
// into the channel's length counter. Shared by every channel that has
// one.
var LengthTable = [32]uint8{
	10, 254, 20, 2, 40, 4, 80, 6,
	160, 8, 60, 10, 14, 12, 26, 14,
	12, 16, 24, 18, 48, 20, 96, 22,
	192, 24, 72, 26, 16, 28, 32, 30,
}
