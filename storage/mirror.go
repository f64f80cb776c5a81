package storage

// Mirror presents an existing storage at a second physical address.
// All accesses go straight to the mirrored storage.
type Mirror struct {
	Storage
	address uint32
}

// NewMirror returns s visible at address
func NewMirror(s Storage, address uint32) *Mirror {
	return &Mirror{Storage: s, address: address}
}

func (m *Mirror) Mnemonic() string        { return m.Storage.Mnemonic() + " (mirror)" }
func (m *Mirror) PhysicalAddress() uint32 { return m.address }
