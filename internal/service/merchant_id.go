package service

import (
	"fmt"
	"strconv"
	"strings"
)

const merchantIDPrefix = "MCH-"

// NextMerchantID returns MCH- followed by the zero-padded successor of the highest
// numeric suffix among existing. Ids without the prefix or with a non-numeric suffix
// count as zero; gaps left by deletions are never reused.
func NextMerchantID(existing []string) string {
	var highest int64
	for _, id := range existing {
		if n := merchantIDNumber(id); n > highest {
			highest = n
		}
	}
	return fmt.Sprintf("%s%05d", merchantIDPrefix, highest+1)
}

func merchantIDNumber(id string) int64 {
	suffix, ok := strings.CutPrefix(id, merchantIDPrefix)
	if !ok {
		return 0
	}
	n, err := strconv.ParseInt(suffix, 10, 64)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
