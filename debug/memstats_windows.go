//go:build windows

package debug

// Memory periodic logger enabled when config.Debug is true.
// Logs working set alongside Go heap stats so native and heap growth can be told apart.

import (
	"log/slog"
	"time"
	"unsafe"

	"golang.org/x/sys/windows"
)

// processMemoryCounters matches PROCESS_MEMORY_COUNTERS from psapi.
type processMemoryCounters struct {
	cb                         uint32
	PageFaultCount             uint32
	PeakWorkingSetSize         uintptr
	WorkingSetSize             uintptr
	QuotaPeakPagedPoolUsage    uintptr
	QuotaPagedPoolUsage        uintptr
	QuotaPeakNonPagedPoolUsage uintptr
	QuotaNonPagedPoolUsage     uintptr
	PagefileUsage              uintptr
	PeakPagefileUsage          uintptr
}

var (
	modPsapi                 = windows.NewLazySystemDLL("psapi.dll")
	procGetProcessMemoryInfo = modPsapi.NewProc("GetProcessMemoryInfo")
)

func residentBytes() (uint64, error) {
	pmc := processMemoryCounters{cb: uint32(unsafe.Sizeof(processMemoryCounters{}))}
	r1, _, err := procGetProcessMemoryInfo.Call(uintptr(windows.CurrentProcess()), uintptr(unsafe.Pointer(&pmc)), uintptr(pmc.cb))
	if r1 == 0 {
		return 0, err
	}
	return uint64(pmc.WorkingSetSize), nil
}

// StartMemLogger launches a goroutine that logs memory stats every interval.
// Failures to query the working set are logged once and suppressed.
func StartMemLogger(interval time.Duration, logger *slog.Logger) {
	startMemLogger(interval, logger, residentBytes)
}
