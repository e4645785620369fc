package widgets

func bankingConfig(overrides map[string]any) map[string]any {
	return mergeConfig(map[string]any{
		"show_balance":       true,
		"show_last_activity": true,
		"show_status":        true,
		"refresh_interval":   300,
		"security_level":     "high",
	}, overrides)
}

func bankingActions(extra ...Action) []Action {
	return append([]Action{
		{Type: "refresh", Label: "Refresh", Icon: "refresh", Description: "Refresh banking data"},
		{Type: "export", Label: "Export", Icon: "download", Description: "Export data to PDF/CSV"},
		{Type: "help", Label: "Help", Icon: "help", Description: "Get help with banking features"},
	}, extra...)
}

func bankingSource(mock bool) string {
	return sourceOf(mock, SourceBankingAPI)
}

func orTimestamp(ts string) string {
	if ts == "" {
		return timestamp()
	}
	return ts
}
