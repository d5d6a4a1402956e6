package analytics

import (
	"fmt"
	"time"

	"leadtimecli/pkg/contracts/domain"
)

var recordSeq int

func rec(brand string, channel domain.ChannelGroup, day string, leadTime int) domain.ShipmentRecord {
	recordSeq++
	d, err := time.Parse(domain.DayLayout, day)
	if err != nil {
		panic(err)
	}
	return domain.ShipmentRecord{
		InvoiceNumber: fmt.Sprintf("NF-%04d", recordSeq),
		Brand:         brand,
		ChannelRaw:    string(channel),
		ChannelGroup:  channel,
		ShipDate:      d,
		InvoiceDate:   d,
		EventDate:     d,
		LeadTimeDays:  leadTime,
	}
}

// sampleRecords: PAPAIZ 1,2,3 and LA FONTE 10 over Mon 8 and Tue 9 Jan 2024.
func sampleRecords() []domain.ShipmentRecord {
	return []domain.ShipmentRecord{
		rec("PAPAIZ", domain.ChannelWebshop, "2024-01-08", 1),
		rec("PAPAIZ", domain.ChannelOther, "2024-01-08", 2),
		rec("LA FONTE", domain.ChannelHomeCenter, "2024-01-09", 10),
		rec("PAPAIZ", domain.ChannelWebshop, "2024-01-09", 3),
	}
}
