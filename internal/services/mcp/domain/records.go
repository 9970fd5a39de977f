package domain

import (
	"context"
	"fmt"
	"strings"

	"github.com/louisbranch/spellduel/internal/services/duel/app"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// BattleRecordsListInput represents the MCP tool input for listing records.
type BattleRecordsListInput struct {
	Filter    string `json:"filter,omitempty" jsonschema:"AIP-160 filter, e.g. outcome = \"victory\" AND flawless"`
	PageSize  int    `json:"page_size,omitempty" jsonschema:"records per page (default 10, max 50)"`
	PageToken string `json:"page_token,omitempty" jsonschema:"next_page_token from a previous call"`
}

// BattleRecordsListResult represents the MCP tool output for listing records.
type BattleRecordsListResult struct {
	Records       []RecordResult `json:"records,omitempty" jsonschema:"battle records, newest first"`
	NextPageToken string         `json:"next_page_token,omitempty" jsonschema:"token for the next page, if any"`
}

// BattleRecordsListTool defines the MCP tool schema for listing records.
func BattleRecordsListTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "battle_records_list",
		Description: "Lists stored battle records, newest first, with an optional filter over outcome, difficulty, rounds, flawless and other record fields",
	}
}

// BattleRecordsListHandler lists battle records.
func BattleRecordsListHandler(api app.API) mcp.ToolHandlerFor[BattleRecordsListInput, BattleRecordsListResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input BattleRecordsListInput) (*mcp.CallToolResult, BattleRecordsListResult, error) {
		if input.PageSize < 0 {
			return nil, BattleRecordsListResult{}, fmt.Errorf("page_size must not be negative")
		}
		callCtx, cancel, err := newCallContext(ctx)
		if err != nil {
			return nil, BattleRecordsListResult{}, err
		}
		defer cancel()

		page, err := api.ListBattleRecords(callCtx, app.ListRecordsRequest{
			Filter:    strings.TrimSpace(input.Filter),
			PageSize:  int32(min(input.PageSize, 1<<30)),
			PageToken: strings.TrimSpace(input.PageToken),
		})
		if err != nil {
			return nil, BattleRecordsListResult{}, fmt.Errorf("battle records list failed: %w", err)
		}
		result := BattleRecordsListResult{NextPageToken: page.NextPageToken}
		for _, record := range page.Records {
			result.Records = append(result.Records, recordResult(record))
		}
		return nil, result, nil
	}
}

// BattleRecordGetInput represents the MCP tool input for reading a record.
type BattleRecordGetInput struct {
	RecordID string `json:"record_id" jsonschema:"battle record identifier"`
}

// BattleRecordGetTool defines the MCP tool schema for reading a record.
func BattleRecordGetTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "battle_record_get",
		Description: "Returns one stored battle record, including the seed needed to replay the duel",
	}
}

// BattleRecordGetHandler returns one battle record.
func BattleRecordGetHandler(api app.API) mcp.ToolHandlerFor[BattleRecordGetInput, RecordResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input BattleRecordGetInput) (*mcp.CallToolResult, RecordResult, error) {
		recordID := strings.TrimSpace(input.RecordID)
		if recordID == "" {
			return nil, RecordResult{}, fmt.Errorf("record_id is required")
		}
		callCtx, cancel, err := newCallContext(ctx)
		if err != nil {
			return nil, RecordResult{}, err
		}
		defer cancel()

		record, err := api.GetBattleRecord(callCtx, recordID)
		if err != nil {
			return nil, RecordResult{}, fmt.Errorf("battle record get failed: %w", err)
		}
		return nil, recordResult(record), nil
	}
}

// SpellCatalogListInput represents the MCP tool input for listing spells.
type SpellCatalogListInput struct {
	Element string `json:"element,omitempty" jsonschema:"optional element to filter by, e.g. fire"`
	MaxTier int    `json:"max_tier,omitempty" jsonschema:"optional highest tier to include"`
}

// SpellCatalogListResult represents the MCP tool output for listing spells.
type SpellCatalogListResult struct {
	Spells []SpellResult `json:"spells,omitempty" jsonschema:"catalog spells"`
}

// SpellCatalogListTool defines the MCP tool schema for listing spells.
func SpellCatalogListTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "spell_catalog_list",
		Description: "Lists the spells known to the duel server",
	}
}

// SpellCatalogListHandler lists catalog spells.
func SpellCatalogListHandler(api app.API) mcp.ToolHandlerFor[SpellCatalogListInput, SpellCatalogListResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input SpellCatalogListInput) (*mcp.CallToolResult, SpellCatalogListResult, error) {
		callCtx, cancel, err := newCallContext(ctx)
		if err != nil {
			return nil, SpellCatalogListResult{}, err
		}
		defer cancel()

		spells, err := api.ListSpells(callCtx)
		if err != nil {
			return nil, SpellCatalogListResult{}, fmt.Errorf("spell catalog list failed: %w", err)
		}
		element := strings.ToLower(strings.TrimSpace(input.Element))
		var result SpellCatalogListResult
		for _, s := range spells {
			if element != "" && string(s.Element) != element {
				continue
			}
			if input.MaxTier > 0 && s.Tier > input.MaxTier {
				continue
			}
			result.Spells = append(result.Spells, spellResult(s))
		}
		return nil, result, nil
	}
}

// WizardGetInput represents the MCP tool input for reading a wizard.
type WizardGetInput struct {
	WizardID string `json:"wizard_id" jsonschema:"wizard identifier"`
}

// WizardGetTool defines the MCP tool schema for reading a wizard.
func WizardGetTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "wizard_get",
		Description: "Returns a wizard profile with level, experience, gold and unlocked spells",
	}
}

// WizardGetHandler returns a wizard profile.
func WizardGetHandler(api app.API) mcp.ToolHandlerFor[WizardGetInput, WizardResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input WizardGetInput) (*mcp.CallToolResult, WizardResult, error) {
		callCtx, cancel, err := newCallContext(ctx)
		if err != nil {
			return nil, WizardResult{}, err
		}
		defer cancel()

		wizard, err := api.GetWizard(callCtx, input.WizardID)
		if err != nil {
			return nil, WizardResult{}, fmt.Errorf("wizard get failed: %w", err)
		}
		return nil, wizardResult(wizard), nil
	}
}
