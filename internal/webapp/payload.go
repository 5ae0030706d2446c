package webapp

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/untibullet/issue-activity-report/internal/aggregator"
	"github.com/untibullet/issue-activity-report/internal/models"
	"github.com/untibullet/issue-activity-report/internal/store"
)

// PayloadPath путь к данным отчета относительно корня сайта
const PayloadPath = "/web/report.json"

// DefaultSubgroupLabel подпись переключателя подгруппы
const DefaultSubgroupLabel = "Subgroup Only"

// Payload все, что нужно странице отчета: оформление и датасет хранилища
type Payload struct {
	Title         string         `json:"title"`
	SubgroupLabel string         `json:"subgroup_label"`
	TopUsers      int            `json:"top_users"`
	Dataset       models.Dataset `json:"dataset"`
}

// NewPayload собирает данные страницы из хранилища
func NewPayload(st *store.Store, title, subgroupLabel string, topUsers int) Payload {
	if subgroupLabel == "" {
		subgroupLabel = DefaultSubgroupLabel
	}
	if topUsers <= 0 {
		topUsers = aggregator.DefaultTopUsers
	}
	return Payload{
		Title:         title,
		SubgroupLabel: subgroupLabel,
		TopUsers:      topUsers,
		Dataset:       st.Dataset(),
	}
}

// WritePayload сериализует данные страницы
func WritePayload(w io.Writer, p Payload) error {
	if err := json.NewEncoder(w).Encode(p); err != nil {
		return fmt.Errorf("failed to encode payload: %w", err)
	}
	return nil
}

// ReadPayload читает данные страницы
func ReadPayload(r io.Reader) (Payload, error) {
	var p Payload
	if err := json.NewDecoder(r).Decode(&p); err != nil {
		return Payload{}, fmt.Errorf("failed to decode payload: %w", err)
	}
	return p, nil
}
