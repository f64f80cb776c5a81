package storage

// Constant is a reserved region. Reads return a fixed value, writes are dropped.
type Constant struct {
	mnemonic string
	address  uint32
	size     uint32
	value    uint32
}

// NewConstant returns a reserved region reading back value (truncated or
// repeated to the access width)
func NewConstant(mnemonic string, address, size, value uint32) *Constant {
	return &Constant{
		mnemonic: mnemonic,
		address:  address,
		size:     size,
		value:    value,
	}
}

func (c *Constant) Mnemonic() string        { return c.mnemonic }
func (c *Constant) PhysicalAddress() uint32 { return c.address }
func (c *Constant) Size() uint32            { return c.size }

func (c *Constant) Read8(uint32) uint8   { return uint8(c.value) }
func (c *Constant) Read16(uint32) uint16 { return uint16(c.value) }
func (c *Constant) Read32(uint32) uint32 { return c.value }
func (c *Constant) Read64(uint32) uint64 { return uint64(c.value)<<32 | uint64(c.value) }

func (c *Constant) Read128(offset uint32) Uint128 {
	return Uint128{Lo: c.Read64(offset), Hi: c.Read64(offset)}
}

func (c *Constant) Write8(uint32, uint8)     {}
func (c *Constant) Write16(uint32, uint16)   {}
func (c *Constant) Write32(uint32, uint32)   {}
func (c *Constant) Write64(uint32, uint64)   {}
func (c *Constant) Write128(uint32, Uint128) {}
