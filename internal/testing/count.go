package testing

import "github.com/bgrewell/boot-kit/pkg/info"

// GetRegionCounts returns how many probed regions verified and how many were rejected.
func GetRegionCounts(layout *info.DiskLayout) (int, int) {
	var verified, rejected int
	for _, region := range layout.Regions {
		if region.Verified {
			verified++
		} else {
			rejected++
		}
	}
	return verified, rejected
}
