package catalog

import "github.com/alexanderramin/timesplit/internal/domain"

var serverSpec = RoleSpec{
	Role:  domain.RoleServer,
	Label: "Server",
	Groups: []Group{
		{ID: DevelopmentProcess, Title: "Development process", Fields: []Field{
			{"requirement_review", "Requirement review"},
			{"task_breakdown", "Task breakdown & scheduling"},
			{"technical_proposal_output", "Technical proposal writing"},
			{"technical_proposal_review", "Technical proposal review"},
			{"test_case_output", "Test case writing"},
			{"test_case_review", "Test case review"},
			{"code_development", "Coding"},
			{"feature_integration", "Integration"},
			{"smoke_testing", "Smoke testing"},
			{"functional_testing", "Functional testing"},
			{"bugfix", "Bugfix"},
			{"code_review", "Code review"},
			{"feature_launch", "Release"},
		}},
		{ID: DailyTasks, Title: "Daily tasks", Fields: []Field{
			{"alert_management", "Alert handling"},
			{"exception_logs", "Exception logs"},
			{"daily_qa", "Answering questions"},
			{"public_opinion", "User feedback triage"},
			{"meetings", "Meetings"},
			{"online_emergency", "Production incidents"},
			{"research_and_sharing", "Research & sharing"},
			{"other", "Other"},
		}},
	},
	Teams: []string{
		"Membership",
		"Content Operations",
		"User Community",
		"Platform Server",
		"Long Audio & Live",
		"Social Apps",
		"AIGC Social",
		"Stability Architecture",
		"Business Middleware",
		"Security & Risk Control",
		"Music Content",
	},
}

var frontendSpec = RoleSpec{
	Role:  domain.RoleFrontend,
	Label: "Frontend",
	Groups: []Group{
		{ID: DevelopmentProcess, Title: "Development process", Fields: []Field{
			{"fe_requirement_review", "Requirement review"},
			{"fe_requirement_communication", "Requirement clarification"},
			{"fe_task_breakdown", "Task breakdown & scheduling"},
			{"fe_technical_proposal_output", "Technical proposal writing"},
			{"fe_technical_proposal_review", "Technical proposal review"},
			{"fe_test_case_output", "Test case writing"},
			{"fe_test_case_review", "Test case review"},
			{"fe_code_development", "Coding"},
			{"fe_build_package", "Build & packaging"},
			{"fe_feature_integration", "Integration"},
			{"fe_smoke_testing", "Smoke testing"},
			{"fe_functional_testing", "Functional testing"},
			{"fe_bugfix", "Bugfix"},
			{"fe_code_review", "Code review"},
			{"fe_code_merge", "Code merge"},
			{"fe_feature_launch", "Release"},
		}},
		{ID: DailyTasks, Title: "Daily tasks", Fields: []Field{
			{"fe_public_opinion", "User feedback triage"},
			{"fe_exception_management", "Crash & ANR handling"},
			{"fe_daily_qa", "Answering questions"},
			{"fe_meetings", "Meetings"},
			{"fe_online_emergency", "Production incidents"},
			{"fe_research_sharing", "Research & sharing"},
			{"fe_other", "Other"},
		}},
	},
	Teams: []string{
		"Membership Frontend",
		"Platform Frontend",
		"Innovation Frontend",
		"Social Apps Frontend",
		"Content Frontend",
		"User Community Frontend",
	},
}

var qaSpec = RoleSpec{
	Role:  domain.RoleQA,
	Label: "QA",
	Groups: []Group{
		{ID: DevelopmentProcess, Title: "Development process", Fields: []Field{
			{"qa_requirement_review", "Requirement review & clarification"},
			{"qa_scheduling", "Scheduling"},
			{"qa_technical_review", "Technical proposal review"},
			{"qa_test_case_writing", "Test plan & case writing"},
			{"qa_case_review", "Test case review"},
			{"qa_functional_testing", "Offline testing (functional, API, regression)"},
			{"qa_offline_review", "Offline walkthrough"},
			{"qa_communication", "Communication & coordination"},
			{"qa_online_review", "Production walkthrough"},
			{"qa_online_quality", "Production quality (patrols, automation gaps, load tests)"},
			{"qa_activity_support", "Campaign walkthrough & support"},
		}},
		{ID: DailyTasks, Title: "Daily tasks", Fields: []Field{
			{"qa_alert_handling", "Production alert handling"},
			{"qa_daily_qa", "Answering questions"},
			{"qa_public_opinion", "User feedback triage & follow-up"},
			{"qa_meetings", "Meetings"},
			{"qa_online_issue", "Production issues"},
			{"qa_research_sharing", "Research & sharing"},
			{"qa_automation", "Automation upkeep (API, UI, monitors)"},
			{"qa_tool_development", "Tooling"},
			{"qa_release_regression", "Release regression"},
			{"qa_bugbash", "Bug bash"},
			{"qa_requirement_grab", "Picking up requirements"},
			{"qa_special_project", "Special projects"},
			{"qa_other", "Other (bounties, test data for others)"},
		}},
	},
	Teams: []string{
		"Content Quality",
		"Platform Quality",
		"Innovation Quality",
		"Stability Quality",
		"Feedback & Experience",
	},
}

// Default returns the built-in catalog with the server, frontend and qa roles.
func Default() *Catalog {
	c, err := New([]RoleSpec{serverSpec, frontendSpec, qaSpec}, domain.RoleServer)
	if err != nil {
		panic("catalog: built-in table is invalid: " + err.Error())
	}
	return c
}
