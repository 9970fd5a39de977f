package service

import (
	"github.com/louisbranch/spellduel/internal/services/duel/app"
	"github.com/louisbranch/spellduel/internal/services/mcp/domain"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func registerDuelTools(server *mcp.Server, api app.API) {
	mcp.AddTool(server, domain.DuelStartTool(), domain.DuelStartHandler(api))
	mcp.AddTool(server, domain.DuelCastTool(), domain.DuelCastHandler(api))
	mcp.AddTool(server, domain.DuelPunchTool(), domain.DuelPunchHandler(api))
	mcp.AddTool(server, domain.DuelSkipTool(), domain.DuelSkipHandler(api))
	mcp.AddTool(server, domain.DuelStateTool(), domain.DuelStateHandler(api))
	mcp.AddTool(server, domain.DuelChooseSpellTool(), domain.DuelChooseSpellHandler(api))
}

func registerCatalogTools(server *mcp.Server, api app.API) {
	mcp.AddTool(server, domain.BattleRecordsListTool(), domain.BattleRecordsListHandler(api))
	mcp.AddTool(server, domain.BattleRecordGetTool(), domain.BattleRecordGetHandler(api))
	mcp.AddTool(server, domain.SpellCatalogListTool(), domain.SpellCatalogListHandler(api))
	mcp.AddTool(server, domain.WizardGetTool(), domain.WizardGetHandler(api))
}
