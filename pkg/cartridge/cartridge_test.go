package cartridge

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func buildINES(mapperID uint8, prgBanks, chrBanks uint8, mirroring uint8) []byte {
	data := make([]byte, 16+int(prgBanks)*prgROMBankSize+int(chrBanks)*chrROMBankSize)
	copy(data[0:4], inesMagic)
	data[4] = prgBanks
	data[5] = chrBanks
	data[6] = (mapperID&0x0F)<<4 | (mirroring & 0x01)
	data[7] = mapperID & 0xF0
	return data
}

func TestLoadFromBytesRejectsBadMagic(t *testing.T) {
	_, err := LoadFromBytes([]byte("NOT AN iNES ROM FILE"))
	assert.ErrorIs(t, err, ErrBadMagic)
}

func TestLoadFromBytesRejectsUnsupportedMapper(t *testing.T) {
	data := buildINES(99, 1, 1, 0)
	_, err := LoadFromBytes(data)
	assert.True(t, errors.Is(err, ErrUnsupportedMapper))
}

func TestLoadFromBytesMapper0RoundTrip(t *testing.T) {
	data := buildINES(0, 2, 1, 1)
	cart, err := LoadFromBytes(data)
	assert.NoError(t, err)
	assert.Equal(t, uint8(0), cart.GetMapperID())
	assert.Equal(t, uint8(2), cart.GetPRGBanks())
	assert.Equal(t, uint8(1), cart.GetCHRBanks())
	assert.Equal(t, MirrorVertical, cart.GetMirroring())
}

func TestFourScreenFlagOverridesMirroringBit(t *testing.T) {
	data := buildINES(0, 1, 1, 0)
	data[6] |= 0x08 // four-screen flag
	cart, err := LoadFromBytes(data)
	assert.NoError(t, err)
	assert.Equal(t, MirrorFourScreen, cart.GetMirroring())
}

func TestLoadFromBytesRestrictsToMappersZeroAndOne(t *testing.T) {
	data := buildINES(4, 1, 1, 0)
	_, err := LoadFromBytes(data)
	assert.ErrorIs(t, err, ErrUnsupportedMapper)

	m, err := NewMapperByID(4, make([]byte, prgROMBankSize), nil, MirrorHorizontal)
	assert.NoError(t, err)
	assert.NotNil(t, m)
}

func TestNewMapperByIDBypassesHeaderParsing(t *testing.T) {
	prg := make([]byte, prgROMBankSize)
	prg[0] = 0xEA
	m, err := NewMapperByID(0, prg, nil, MirrorHorizontal)
	assert.NoError(t, err)
	assert.Equal(t, uint8(0xEA), m.ReadPRG(0x8000))
}

func TestNewMapperByIDUnsupportedID(t *testing.T) {
	_, err := NewMapperByID(250, nil, nil, MirrorHorizontal)
	assert.ErrorIs(t, err, ErrUnsupportedMapper)
}
