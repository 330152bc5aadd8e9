package usbtmc

import (
	"fmt"
	"strconv"
	"strings"
)

// Address is a parsed USB INSTR resource address.
type Address struct {
	Vendor    uint16
	Product   uint16
	Serial    string
	Interface int
}

func (a Address) String() string {
	return fmt.Sprintf("USB0::0x%04X::0x%04X::%s::%d::INSTR", a.Vendor, a.Product, a.Serial, a.Interface)
}

// ParseAddress parses "USB[board]::<vid>::<pid>::<serial>[::<intf>][::INSTR]".
// Vendor and product ids may be given in hex (0x prefix) or decimal.
func ParseAddress(s string) (Address, error) {
	parts := strings.Split(s, "::")
	if len(parts) > 0 && strings.EqualFold(parts[len(parts)-1], "INSTR") {
		parts = parts[:len(parts)-1]
	}
	if len(parts) < 4 || len(parts) > 5 || !strings.HasPrefix(strings.ToUpper(parts[0]), "USB") {
		return Address{}, fmt.Errorf("usbtmc: invalid resource address %q", s)
	}

	vid, err := strconv.ParseUint(parts[1], 0, 16)
	if err != nil {
		return Address{}, fmt.Errorf("usbtmc: invalid vendor id in %q: %w", s, err)
	}
	pid, err := strconv.ParseUint(parts[2], 0, 16)
	if err != nil {
		return Address{}, fmt.Errorf("usbtmc: invalid product id in %q: %w", s, err)
	}

	addr := Address{Vendor: uint16(vid), Product: uint16(pid), Serial: parts[3]}
	if len(parts) == 5 {
		intf, err := strconv.Atoi(parts[4])
		if err != nil || intf < 0 {
			return Address{}, fmt.Errorf("usbtmc: invalid interface number in %q", s)
		}
		addr.Interface = intf
	}

	return addr, nil
}
