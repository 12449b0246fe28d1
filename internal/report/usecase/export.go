package usecase

import (
	"encoding/csv"
	"io"
	"strconv"

	messagedomain "jobradar-backend/internal/message/domain"
)

// csvHeader is the documented external export shape. Consumers depend on
// this column set field-for-field; do not reorder or rename.
var csvHeader = []string{
	"rank",
	"channel_name",
	"channel_link",
	"job_messages",
	"total_messages",
	"job_percentage",
	"last_activity",
	"joined_by_account",
}

// WriteRankingCSV writes the channel ranking as CSV
func WriteRankingCSV(w io.Writer, ranked []*messagedomain.RankedGroup) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(csvHeader); err != nil {
		return err
	}

	for i, row := range ranked {
		lastActivity := ""
		if !row.LastActivity.IsZero() {
			lastActivity = row.LastActivity.Format("2006-01-02 15:04:05")
		}
		record := []string{
			strconv.Itoa(i + 1),
			row.Name,
			row.Link,
			strconv.FormatInt(row.JobMessageCount, 10),
			strconv.FormatInt(row.TotalMessageCount, 10),
			strconv.FormatFloat(row.JobPercentage, 'f', 2, 64),
			lastActivity,
			row.OwnedBy,
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}
