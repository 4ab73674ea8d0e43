package catalog

import "virtualco/internal/domain"

var roster = []domain.Agent{
	{ID: "ceo", Name: "Alex Chen", Role: domain.RoleCEO, Title: "CEO", Avatar: "👔", Personality: "Strategic visionary, drives product direction", Status: domain.AgentActive},
	{ID: "developer", Name: "Sam Rodriguez", Role: domain.RoleDeveloper, Title: "Lead Developer", Avatar: "💻", Personality: "Tech-savvy problem solver, builds features", Status: domain.AgentActive},
	{ID: "designer", Name: "Maya Patel", Role: domain.RoleDesigner, Title: "UX Designer", Avatar: "🎨", Personality: "User-focused creative, designs experiences", Status: domain.AgentActive},
	{ID: "marketer", Name: "Jordan Kim", Role: domain.RoleMarketer, Title: "Marketing Lead", Avatar: "📱", Personality: "Growth hacker, builds audience & brand", Status: domain.AgentActive},
	{ID: "qa", Name: "Taylor Swift", Role: domain.RoleQA, Title: "QA Engineer", Avatar: "🧪", Personality: "Quality guardian, ensures reliability", Status: domain.AgentActive},
	{ID: "docs", Name: "Riley Morgan", Role: domain.RoleDocs, Title: "Documentation Lead", Avatar: "📚", Personality: "Clear communicator, makes complex simple", Status: domain.AgentActive},
	{ID: "cfo", Name: "Casey Lin", Role: domain.RoleCFO, Title: "CFO", Avatar: "💰", Personality: "Financial strategist, manages growth & runway", Status: domain.AgentActive},
}

func msg(text string) Activity { return Activity{Kind: KindMessage, Content: text} }

func decision(text string) Activity { return Activity{Kind: KindDecision, Content: text} }

func financial(text string) Activity { return Activity{Kind: KindFinancial, Content: text} }

func task(title, desc string, p domain.Priority, tt domain.TaskType) Activity {
	return Activity{Kind: KindTask, Title: title, Description: desc, Priority: p, TaskType: tt}
}

func doc(t domain.DocType, title string) Activity {
	return Activity{Kind: KindDocumentation, DocType: t, Title: title}
}

var (
	complete = Activity{Kind: KindComplete}
	bug      = Activity{Kind: KindBug}
	pr       = Activity{Kind: KindPR}
	review   = Activity{Kind: KindReview}
)

var roleActivities = map[domain.Role][]Activity{
	domain.RoleCEO: {
		msg("We need to prioritize user onboarding this week. Thoughts?"),
		msg("Great progress team! Let's focus on the MVP features."),
		decision("Approved the new feature roadmap. Let's execute!"),
		task("Define Q1 OKRs", "Set quarterly objectives and key results", domain.PriorityHigh, domain.TaskPlanning),
		msg("Customer feedback is coming in positive! Keep it up."),
		decision("Let's pivot our pricing strategy based on user research."),
	},
	domain.RoleDeveloper: {
		msg("Just deployed the new authentication system. Testing now."),
		msg("Working on the API optimization - should improve speed by 40%."),
		task("Build user dashboard", "Create analytics dashboard for users", domain.PriorityHigh, domain.TaskFeature),
		complete,
		pr,
		msg("Refactoring the payment service for better scalability."),
	},
	domain.RoleDesigner: {
		msg("New mockups are ready for the landing page redesign!"),
		msg("User research shows we need better mobile navigation."),
		task("Design onboarding flow", "Create user-friendly onboarding wireframes", domain.PriorityMedium, domain.TaskDesign),
		msg("Updated the design system with new color palette."),
		complete,
		msg("Created interactive prototypes for user testing."),
	},
	domain.RoleMarketer: {
		msg("Our social media engagement is up 35% this week!"),
		msg("Planning a launch campaign for next month. Need input."),
		task("Create launch content", "Prepare blog posts and social content", domain.PriorityMedium, domain.TaskMarketing),
		msg("SEO improvements are showing results - organic traffic doubled!"),
		msg("Reaching out to potential beta users for feedback."),
		complete,
	},
	domain.RoleQA: {
		msg("Running automated test suite on latest build..."),
		bug,
		msg("Test coverage is now at 87% and climbing!"),
		review,
		msg("Performance tests passed - load time under 2 seconds!"),
		complete,
	},
	domain.RoleDocs: {
		doc(domain.DocAPI, "API Reference"),
		doc(domain.DocUserGuide, "User Guide"),
		msg("Updated onboarding documentation based on user feedback."),
		task("Create video tutorials", "Produce tutorial videos for new features", domain.PriorityMedium, domain.TaskDocumentation),
		complete,
		msg("Published technical architecture documentation for developers."),
	},
	domain.RoleCFO: {
		financial("Monthly financial review: Revenue up 23%, runway stable at 16 months."),
		msg("Analyzing pricing model optimization opportunities."),
		task("Prepare investor deck", "Update financial projections for Series A", domain.PriorityHigh, domain.TaskFinancial),
		financial("CAC decreased by 18% through improved conversion funnel."),
		complete,
		msg("Negotiated better terms with infrastructure provider - 25% cost savings."),
	},
}
