package donation

import "log"

func logNotifyFailure(op string, donationID uint, err error) {
	log.Printf("[WARN] notification for donation %d (%s) failed: %v", donationID, op, err)
}
