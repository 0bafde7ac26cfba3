package roslib

import (
	"fmt"
	"strings"
)

// Arch identifies the hardware platform an artifact is built for.
type Arch string

const (
	ArchARM    Arch = "arm"
	ArchARM64  Arch = "arm64"
	ArchMIPSBE Arch = "mipsbe"
	ArchMMIPS  Arch = "mmips"
	ArchPPC    Arch = "ppc"
	ArchSMIPS  Arch = "smips"
	ArchTILE   Arch = "tile"
	ArchX86    Arch = "x86"
)

// Architectures lists every platform published on the CDN, in the order
// targets are generated.
var Architectures = []Arch{
	ArchARM, ArchARM64, ArchMIPSBE, ArchMMIPS,
	ArchPPC, ArchSMIPS, ArchTILE, ArchX86,
}

// filePatterns is the fixed catalog of artifact filename templates.
// Templates carrying {arch} exist per architecture; the rest (installer
// images, virtual appliance disks, docs) are published once per version
// and are emitted under the x86 placeholder only.
var filePatterns = []string{
	"routeros-{arch}-{version}.npk",
	"all_packages-{arch}-{version}.zip",
	"routeros-{arch}-{version}.zip",
	"mikrotik-{version}.iso",
	"cd-{version}.iso",
	"chr-{version}.ova",
	"chr-{version}.vdi",
	"chr-{version}.vmdk",
	"chr-{version}.vhdx",
	"chr-{version}.img",
	"chr-{version}.zip",
	"routeros-{arch}-{version}.upgrade",
	"routeros-{version}.pdf",
	"CHANGELOG",
	"README",
}

// singleFilePrefixes mark templates that exist only once per version even
// though the catalog is crossed with every architecture.
var singleFilePrefixes = []string{"chr-", "mikrotik-", "cd-"}

// Target is one downloadable artifact of a confirmed version.
type Target struct {
	Version  string
	Arch     Arch
	Filename string
	URL      string
}

// BuildTargets expands a confirmed version into the full artifact list.
// Pure expansion, no I/O; output is deterministic for a fixed catalog.
func BuildTargets(baseURL, version string) []Target {
	var targets []Target
	for _, arch := range Architectures {
		for _, pattern := range filePatterns {
			if !strings.Contains(pattern, "{arch}") && arch != ArchX86 {
				continue
			}
			if arch != ArchX86 && hasSingleFilePrefix(pattern) {
				continue
			}
			filename := strings.NewReplacer(
				"{arch}", string(arch),
				"{version}", version,
			).Replace(pattern)
			targets = append(targets, Target{
				Version:  version,
				Arch:     arch,
				Filename: filename,
				URL:      fmt.Sprintf("%s/%s/%s", baseURL, version, filename),
			})
		}
	}
	return targets
}

func hasSingleFilePrefix(pattern string) bool {
	for _, prefix := range singleFilePrefixes {
		if strings.Contains(pattern, prefix) {
			return true
		}
	}
	return false
}
