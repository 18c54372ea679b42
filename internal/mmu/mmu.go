// Package mmu provides the address bus of the Game Boy. The MMU is
// unaware of what the other components do, it only routes each read
// and write to the component mapped at the address.
package mmu

import (
	"github.com/thelolagemann/sm83/internal/boot"
	"github.com/thelolagemann/sm83/internal/cartridge"
	"github.com/thelolagemann/sm83/internal/interrupts"
	"github.com/thelolagemann/sm83/internal/ram"
	"github.com/thelolagemann/sm83/internal/types"
	"github.com/thelolagemann/sm83/pkg/log"
)

// IOBus is the interface that the MMU uses to communicate with the other
// components.
type IOBus interface {
	Read(address uint16) uint8
	Write(address uint16, value uint8)
}

// Peripheral is a component on the bus whose state is saved with
// the MMU.
type Peripheral interface {
	IOBus
	types.Stater
}

// MMU is the memory management unit for the Game Boy. It handles all
// memory reads and writes to the Game Boy's 64kB of memory, and
// delegates to the other components. Addresses that nothing is
// mapped at read 0xFF and ignore writes.
type MMU struct {
	// 64kB address space
	raw [65536]*types.Address

	// 0x0000 - 0x00FF - BOOT ROM (256B)
	bootROM    *boot.ROM
	bootActive bool

	// 0x0000 - 0x7FFF - ROM (32kB)
	// 0xA000 - 0xBFFF - External RAM (8kB)
	Cart cartridge.Cartridge

	// 0x8000 - 0x9FFF - Video RAM (8kB)
	// 0xFE00 - 0xFE9F - Sprite Attribute Table (160B)
	// 0xFF40 - 0xFF4B - Video registers
	Video Peripheral

	// 0xFF80 - 0xFFFE - High RAM (127B)
	hRAM *ram.HRAM

	// 0xFF0F & 0xFFFF - interrupt flag and enable registers
	irq *interrupts.Service

	err error
	Log log.Logger
}

// NewMMU returns a new MMU, without a boot ROM.
func NewMMU(cart cartridge.Cartridge, video Peripheral, irq *interrupts.Service, l log.Logger) *MMU {
	if l == nil {
		l = log.NewNullLogger()
	}
	m := &MMU{
		Cart:  cart,
		Video: video,
		hRAM:  ram.NewHRAM(),
		irq:   irq,
		Log:   l,
	}
	m.init()

	return m
}

func (m *MMU) init() {
	openBus := &types.Address{
		Read:  func(uint16) uint8 { return 0xFF },
		Write: func(uint16, uint8) {},
	}
	addresses := []types.Address{
		{Read: m.readCart, Write: m.Cart.Write},
		{Read: m.Cart.Read, Write: m.Cart.Write},
		{Read: m.Video.Read, Write: m.Video.Write},
		{Read: m.hRAM.Read, Write: m.hRAM.Write},
		{Read: m.readInterrupts, Write: m.writeInterrupts},
		{Read: openBus.Read, Write: m.disableBootROM},
	}

	for i := range m.raw {
		m.raw[i] = openBus
	}

	// 0x0000 - 0x00FF - BOOT ROM, uncovering the cartridge
	mapRange(m, types.BootStart, types.BootEnd, &addresses[0])

	// 0x0100 - 0x7FFF - ROM, 0xA000 - 0xBFFF - external RAM
	mapRange(m, types.BootEnd+1, types.ROMEnd, &addresses[1])
	mapRange(m, types.ERAMStart, types.ERAMEnd, &addresses[1])

	// video memory and registers
	mapRange(m, types.VRAMStart, types.VRAMEnd, &addresses[2])
	mapRange(m, types.OAMStart, types.OAMEnd, &addresses[2])
	mapRange(m, types.LCDC, types.WX, &addresses[2])

	// 0xFF80 - 0xFFFE - High RAM
	mapRange(m, types.HRAMStart, types.HRAMEnd, &addresses[3])

	m.raw[types.IF] = &addresses[4]
	m.raw[types.IE] = &addresses[4]
	m.raw[types.BDIS] = &addresses[5]
}

func mapRange(m *MMU, start, end uint16, a *types.Address) {
	for i := int(start); i <= int(end); i++ {
		m.raw[i] = a
	}
}

// SetBootROM maps rom over 0x0000 - 0x00FF until it is disabled
// through types.BDIS.
func (m *MMU) SetBootROM(rom *boot.ROM) {
	m.bootROM = rom
	m.bootActive = rom != nil
}

// BootROMActive returns true while the boot ROM is mapped.
func (m *MMU) BootROMActive() bool {
	return m.bootActive
}

// Err returns the first fault raised by a component on the bus.
func (m *MMU) Err() error {
	return m.err
}

func (m *MMU) fault(err error) {
	if m.err == nil {
		m.err = err
		m.Log.Errorf("mmu: %s", err)
	}
}

func (m *MMU) readCart(address uint16) uint8 {
	if m.bootActive {
		return m.bootROM.Read(address)
	}
	return m.Cart.Read(address)
}

func (m *MMU) disableBootROM(address uint16, value uint8) {
	// any write disables the boot rom, for good
	if m.bootActive {
		m.bootActive = false
		m.Log.Infof("mmu: boot rom (%s) disabled, handing over to the cartridge", m.bootROM.Model())
	}
}

func (m *MMU) readInterrupts(address uint16) uint8 {
	v, err := m.irq.Read(address)
	if err != nil {
		m.fault(err)
		return 0xFF
	}
	return v
}

func (m *MMU) writeInterrupts(address uint16, value uint8) {
	if err := m.irq.Write(address, value); err != nil {
		m.fault(err)
	}
}

// Read returns the value at the given address.
func (m *MMU) Read(address uint16) uint8 {
	return m.raw[address].Read(address)
}

// Write writes the value to the given address.
func (m *MMU) Write(address uint16, value uint8) {
	m.raw[address].Write(address, value)
}

var _ types.Stater = (*MMU)(nil)

// Load implements the types.Stater interface. The interrupt
// service is loaded by its owner.
func (m *MMU) Load(s *types.State) {
	m.bootActive = s.ReadBool() && m.bootROM != nil
	m.hRAM.Load(s)
	m.Cart.Load(s)
	m.Video.Load(s)
}

// Save implements the types.Stater interface.
func (m *MMU) Save(s *types.State) {
	s.WriteBool(m.bootActive)
	m.hRAM.Save(s)
	m.Cart.Save(s)
	m.Video.Save(s)
}
