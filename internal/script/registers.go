package script

import (
	"strconv"
	"strings"

	"github.com/amigacore/coreemu/internal/cpu"
)

// registerByName and setRegisterByName translate the Lua-facing
// register name convention ("d0".."d7", "a0".."a7", "pc", "sr", "usp",
// "ssp") to and from internal/cpu.Registers, the same small set the
// teacher's DebuggableCPU.GetRegister/SetRegister exposes by name
// rather than by struct field.
func registerByName(r cpu.Registers, name string) (uint32, bool) {
	name = strings.ToLower(name)
	switch {
	case name == "pc":
		return r.PC, true
	case name == "sr":
		return uint32(r.SR), true
	case name == "usp":
		return r.USP, true
	case name == "ssp":
		return r.SSP, true
	case len(name) == 2 && name[0] == 'd':
		if i, ok := digit(name[1]); ok {
			return r.D[i], true
		}
	case len(name) == 2 && name[0] == 'a':
		if i, ok := digit(name[1]); ok {
			return r.A[i], true
		}
	}
	return 0, false
}

func setRegisterByName(r *cpu.Registers, name string, val uint32) bool {
	name = strings.ToLower(name)
	switch {
	case name == "pc":
		r.PC = val
		return true
	case name == "sr":
		r.SR = uint16(val)
		return true
	case name == "usp":
		r.USP = val
		return true
	case name == "ssp":
		r.SSP = val
		return true
	case len(name) == 2 && name[0] == 'd':
		if i, ok := digit(name[1]); ok {
			r.D[i] = val
			return true
		}
	case len(name) == 2 && name[0] == 'a':
		if i, ok := digit(name[1]); ok {
			r.A[i] = val
			return true
		}
	}
	return false
}

func digit(b byte) (int, bool) {
	n, err := strconv.Atoi(string(b))
	if err != nil || n < 0 || n > 7 {
		return 0, false
	}
	return n, true
}
