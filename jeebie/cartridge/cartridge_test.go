package cartridge

import "testing"

// buildROM returns a minimal 32 KiB ROM-only image with the given title and
// a valid header checksum, or one off by one when corruptChecksum is set.
func buildROM(title string, corruptChecksum bool) []byte {
	rom := make([]byte, romBankSize)
	copy(rom[titleAddress:titleAddress+titleLength], title)
	rom[cartridgeTypeAddress] = romOnlyType
	rom[romSizeAddress] = 0x00
	rom[ramSizeAddress] = 0x00

	checksum := computeHeaderChecksum(rom)
	if corruptChecksum {
		checksum++
	}
	rom[headerChecksumAddress] = checksum
	return rom
}

func TestLoad_parsesHeaderAndValidatesChecksum(t *testing.T) {
	rom := buildROM("TESTGAME", false)

	cart, err := Load(rom)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cart.Header.Title != "TESTGAME" {
		t.Fatalf("Title = %q, want TESTGAME", cart.Header.Title)
	}
	if !cart.Header.ChecksumOK {
		t.Fatal("expected a valid header checksum to be detected")
	}
}

func TestLoad_detectsBadChecksumWithoutFailingLoad(t *testing.T) {
	rom := buildROM("BADSUM", true)

	cart, err := Load(rom)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cart.Header.ChecksumOK {
		t.Fatal("expected a corrupted header checksum to be flagged")
	}
}

func TestLoad_rejectsUnsupportedMapper(t *testing.T) {
	rom := buildROM("MBC1GAME", false)
	rom[cartridgeTypeAddress] = 0x01 // MBC1

	_, err := Load(rom)
	if err == nil {
		t.Fatal("expected an UnsupportedMapperError")
	}
	var mapperErr *UnsupportedMapperError
	if !errorsAs(err, &mapperErr) {
		t.Fatalf("error = %v, want *UnsupportedMapperError", err)
	}
}

func TestLoad_rejectsUndersizedImage(t *testing.T) {
	_, err := Load(make([]byte, 100))
	if err == nil {
		t.Fatal("expected an error for a too-small ROM image")
	}
}

func TestCartridge_readExternalRAMDelegatesToROM(t *testing.T) {
	rom := buildROM("EXTRAM", false)
	cart, err := Load(rom)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	// 0xA000 is beyond the 32 KiB image, so it must read as 0xFF.
	if got := cart.ReadExternalRAM(0xA000); got != 0xFF {
		t.Fatalf("ReadExternalRAM(0xA000) = %02X, want FF", got)
	}
}

func TestCartridge_unloadedReadsAsFF(t *testing.T) {
	cart := New()
	if got := cart.ReadROM(0x0100); got != 0xFF {
		t.Fatalf("ReadROM on an empty cartridge = %02X, want FF", got)
	}
}

// errorsAs avoids importing the "errors" package just for one assertion.
func errorsAs(err error, target **UnsupportedMapperError) bool {
	if e, ok := err.(*UnsupportedMapperError); ok {
		*target = e
		return true
	}
	return false
}
