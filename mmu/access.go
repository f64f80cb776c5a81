package mmu

import "ps2/storage"

// Typed accessors, "{Read|Write}{width}{U|S}". The signed variants differ
// only in how the caller wants the bits interpreted.

func (m *PhysicalMMU) ReadByteU(address uint32) (uint8, error) {
	s, offset, err := m.translate(address, 1)
	if err != nil {
		return 0, err
	}
	return s.Read8(offset), nil
}

func (m *PhysicalMMU) ReadByteS(address uint32) (int8, error) {
	v, err := m.ReadByteU(address)
	return int8(v), err
}

func (m *PhysicalMMU) ReadHwordU(address uint32) (uint16, error) {
	s, offset, err := m.translate(address, 2)
	if err != nil {
		return 0, err
	}
	return s.Read16(offset), nil
}

func (m *PhysicalMMU) ReadHwordS(address uint32) (int16, error) {
	v, err := m.ReadHwordU(address)
	return int16(v), err
}

func (m *PhysicalMMU) ReadWordU(address uint32) (uint32, error) {
	s, offset, err := m.translate(address, 4)
	if err != nil {
		return 0, err
	}
	return s.Read32(offset), nil
}

func (m *PhysicalMMU) ReadWordS(address uint32) (int32, error) {
	v, err := m.ReadWordU(address)
	return int32(v), err
}

func (m *PhysicalMMU) ReadDwordU(address uint32) (uint64, error) {
	s, offset, err := m.translate(address, 8)
	if err != nil {
		return 0, err
	}
	return s.Read64(offset), nil
}

func (m *PhysicalMMU) ReadDwordS(address uint32) (int64, error) {
	v, err := m.ReadDwordU(address)
	return int64(v), err
}

// ReadQword reads the low doubleword at address and the high one at address+8
func (m *PhysicalMMU) ReadQword(address uint32) (storage.Uint128, error) {
	lo, err := m.ReadDwordU(address)
	if err != nil {
		return storage.Uint128{}, err
	}
	hi, err := m.ReadDwordU(address + 8)
	if err != nil {
		return storage.Uint128{}, err
	}
	return storage.Uint128{Lo: lo, Hi: hi}, nil
}

func (m *PhysicalMMU) WriteByteU(address uint32, value uint8) error {
	s, offset, err := m.translate(address, 1)
	if err != nil {
		return err
	}
	s.Write8(offset, value)
	return nil
}

func (m *PhysicalMMU) WriteByteS(address uint32, value int8) error {
	return m.WriteByteU(address, uint8(value))
}

func (m *PhysicalMMU) WriteHwordU(address uint32, value uint16) error {
	s, offset, err := m.translate(address, 2)
	if err != nil {
		return err
	}
	s.Write16(offset, value)
	return nil
}

func (m *PhysicalMMU) WriteHwordS(address uint32, value int16) error {
	return m.WriteHwordU(address, uint16(value))
}

func (m *PhysicalMMU) WriteWordU(address uint32, value uint32) error {
	s, offset, err := m.translate(address, 4)
	if err != nil {
		return err
	}
	s.Write32(offset, value)
	return nil
}

func (m *PhysicalMMU) WriteWordS(address uint32, value int32) error {
	return m.WriteWordU(address, uint32(value))
}

func (m *PhysicalMMU) WriteDwordU(address uint32, value uint64) error {
	s, offset, err := m.translate(address, 8)
	if err != nil {
		return err
	}
	s.Write64(offset, value)
	return nil
}

func (m *PhysicalMMU) WriteDwordS(address uint32, value int64) error {
	return m.WriteDwordU(address, uint64(value))
}

// WriteQword writes value.Lo at address and value.Hi at address+8.
// Both halves are resolved before anything is written.
func (m *PhysicalMMU) WriteQword(address uint32, value storage.Uint128) error {
	loStorage, loOffset, err := m.translate(address, 8)
	if err != nil {
		return err
	}
	hiStorage, hiOffset, err := m.translate(address+8, 8)
	if err != nil {
		return err
	}
	loStorage.Write64(loOffset, value.Lo)
	hiStorage.Write64(hiOffset, value.Hi)
	return nil
}
