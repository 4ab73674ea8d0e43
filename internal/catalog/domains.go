package catalog

import "virtualco/internal/domain"

type DomainInfo struct {
	Key        string   `json:"key"`
	Name       string   `json:"name"`
	Focus      string   `json:"focus"`
	Challenges []string `json:"challenges"`
}

// MetricLabels are the display names of the headline metrics for a domain.
type MetricLabels struct {
	Users    string `json:"users"`
	Revenue  string `json:"revenue"`
	Features string `json:"features"`
}

var domainOrder = []string{"saas", "ecommerce", "fintech", "healthcare", "edtech", "marketplace", "social", "ai", "gaming", "crypto"}

var domainTemplates = map[string]DomainInfo{
	"saas":        {Key: "saas", Name: "SaaS Platform", Focus: "Recurring revenue, user retention, feature velocity", Challenges: []string{"Churn rate", "Product-market fit", "CAC:LTV ratio", "Technical debt"}},
	"ecommerce":   {Key: "ecommerce", Name: "E-commerce", Focus: "Conversion rate, GMV, customer lifetime value", Challenges: []string{"Cart abandonment", "Inventory management", "Shipping logistics", "Returns"}},
	"fintech":     {Key: "fintech", Name: "FinTech", Focus: "Security, compliance, transaction volume", Challenges: []string{"Regulatory compliance", "Fraud prevention", "Banking partnerships", "Trust"}},
	"healthcare":  {Key: "healthcare", Name: "HealthTech", Focus: "Patient outcomes, HIPAA compliance, provider network", Challenges: []string{"Data privacy", "Medical accuracy", "Insurance integration", "Regulations"}},
	"edtech":      {Key: "edtech", Name: "EdTech", Focus: "Learning outcomes, engagement, content quality", Challenges: []string{"Course completion", "Accreditation", "Teacher quality", "Pricing"}},
	"marketplace": {Key: "marketplace", Name: "Marketplace", Focus: "Supply-demand balance, GMV, take rate", Challenges: []string{"Network effects", "Trust & safety", "Payment escrow", "Quality control"}},
	"social":      {Key: "social", Name: "Social Network", Focus: "User engagement, DAU/MAU, viral growth", Challenges: []string{"Content moderation", "Retention", "Monetization", "Privacy"}},
	"ai":          {Key: "ai", Name: "AI/ML Platform", Focus: "Model accuracy, inference speed, API reliability", Challenges: []string{"Training costs", "Data quality", "Bias mitigation", "Explainability"}},
	"gaming":      {Key: "gaming", Name: "Gaming", Focus: "Player retention, ARPU, viral coefficient", Challenges: []string{"Live ops", "Monetization balance", "Server costs", "Community toxicity"}},
	"crypto":      {Key: "crypto", Name: "Web3/Crypto", Focus: "TVL, community, tokenomics", Challenges: []string{"Security audits", "Regulations", "Gas fees", "Market volatility"}},
}

var metricLabels = map[string]MetricLabels{
	"saas":        {Users: "Active Users", Revenue: "MRR", Features: "Features Shipped"},
	"ecommerce":   {Users: "Customers", Revenue: "GMV", Features: "Products Listed"},
	"fintech":     {Users: "Account Holders", Revenue: "Transaction Volume", Features: "Integrations"},
	"healthcare":  {Users: "Patients", Revenue: "Monthly Revenue", Features: "Services Offered"},
	"edtech":      {Users: "Students", Revenue: "Course Revenue", Features: "Courses Published"},
	"marketplace": {Users: "Active Users", Revenue: "GMV", Features: "Listings"},
	"social":      {Users: "DAU", Revenue: "Ad Revenue", Features: "Features Launched"},
	"ai":          {Users: "API Users", Revenue: "API Revenue", Features: "Model Versions"},
	"gaming":      {Users: "Daily Players", Revenue: "Daily Revenue", Features: "Game Modes"},
	"crypto":      {Users: "Wallet Addresses", Revenue: "TVL", Features: "Smart Contracts"},
}

var domainEvents = map[string][]string{
	"saas": {
		"🎉 Major enterprise client signed! $50K ARR contract",
		"⚠️ Competitor launched similar feature - need to differentiate",
		"🐛 Critical bug affecting 5% of users - all hands on deck",
		"📈 Product Hunt launch went viral! 500 signups today",
		"💡 Customer feedback suggests major new feature opportunity",
		"🔒 Security audit completed - need to fix 3 vulnerabilities",
		"🤝 Partnership opportunity with major platform",
	},
	"ecommerce": {
		"📦 Supply chain delay affecting 20% of inventory",
		"🎁 Holiday season spike - 3x normal traffic expected",
		"⭐ Influencer partnership driving huge traffic",
		"💳 Payment processor went down for 2 hours",
		"🚚 Shipping carrier increased rates by 15%",
		"🔥 Flash sale generated 200% of daily revenue",
		"📸 User-generated content campaign went viral",
	},
	"fintech": {
		"🏦 Banking partner changed API - urgent integration needed",
		"⚖️ New regulation announced - compliance review required",
		"🔐 Security audit passed with flying colors",
		"💰 Funding round closed - $5M raised",
		"🚨 Fraud detection caught major attempted breach",
		"📊 Transaction volume doubled month-over-month",
		"🤝 Major card network approved partnership",
	},
	"healthcare": {
		"🏥 New provider network partnership signed",
		"⚕️ FDA approval process initiated",
		"🔒 HIPAA audit completed successfully",
		"📱 Telemedicine demand surge - need to scale",
		"💊 Integration with major pharmacy chain",
		"📋 Insurance reimbursement approved",
		"🧪 Clinical validation study shows positive results",
	},
	"edtech": {
		"🎓 University partnership announced",
		"📚 Course completion rate improved to 75%",
		"👨‍🏫 Top instructor recruited from competitor",
		"🏆 Won \"Best EdTech Platform\" award",
		"💻 Live class feature driving 40% more engagement",
		"📝 Accreditation received for certificate programs",
		"🌍 International expansion - launching in 3 new countries",
	},
	"marketplace": {
		"🚀 Crossed critical mass - network effects kicking in",
		"⚠️ Fraud attempt detected and prevented",
		"💵 Average transaction value increased 30%",
		"🤝 Major supplier joined platform",
		"⭐ Trust score system improved quality by 25%",
		"📈 Supply outpacing demand - need more buyers",
		"🔧 Payment escrow system upgrade complete",
	},
	"social": {
		"📱 Viral feature spreading organically",
		"⚠️ Content moderation challenge - reviewing policies",
		"🎯 Engagement rate highest in company history",
		"💬 Influencers creating buzz around platform",
		"🔒 Privacy settings enhanced after user feedback",
		"📊 DAU/MAU ratio reached 50%",
		"🌟 Celebrity joined and brought 100K followers",
	},
	"ai": {
		"🤖 Model accuracy improved to 95%",
		"⚡ Inference latency reduced by 60%",
		"📊 Training costs optimized - 40% savings",
		"🔬 Research paper published about our approach",
		"⚠️ Bias detected in model - retraining needed",
		"🚀 New model version deployed to production",
		"🏆 Outperformed competitors in benchmark",
	},
	"gaming": {
		"🎮 Player retention improved to 40% D7",
		"🎨 New cosmetic items generated $50K in 24 hours",
		"⚔️ Tournament attracted 10K participants",
		"🐛 Major exploit discovered - hotfix deployed",
		"🌟 Streamer with 1M followers playing our game",
		"💰 ARPU increased 25% after monetization update",
		"🌍 Launched in Asia - huge player surge",
	},
	"crypto": {
		"💎 TVL crossed $10M milestone",
		"🔒 Smart contract audit completed - no critical issues",
		"📈 Token price increased 50% this week",
		"⚠️ Gas fees spiking - users complaining",
		"🤝 Major DeFi protocol integration complete",
		"🔐 Security incident prevented - multisig working",
		"🏛️ DAO governance proposal passed",
	},
}

func okr(id, objective, owner string, krs ...string) domain.OKR {
	return domain.OKR{ID: id, Objective: objective, KeyResults: krs, Owner: owner}
}

var domainOKRs = map[string][]domain.OKR{
	"saas": {
		okr("1", "Launch SaaS MVP Successfully", "ceo", "Ship 10 core features", "Achieve 95% test coverage", "Onboard 100 beta users"),
		okr("2", "Build Strong Market Presence", "marketer", "Grow to 1K users", "Achieve $10K MRR", "Get 3 case studies"),
	},
	"ecommerce": {
		okr("1", "Launch Online Store", "ceo", "List 100 products", "Process 500 orders", "Achieve 3% conversion rate"),
		okr("2", "Drive Traffic & Sales", "marketer", "Reach 10K monthly visitors", "Hit $50K GMV", "Build email list of 2K"),
	},
	"fintech": {
		okr("1", "Build Secure Platform", "developer", "Pass security audit", "Achieve SOC 2 compliance", "Zero security incidents"),
		okr("2", "Acquire Users", "ceo", "Onboard 1K users", "Process $1M transactions", "Achieve 40% retention"),
	},
	"healthcare": {
		okr("1", "Ensure HIPAA Compliance", "ceo", "Complete security audit", "Train all staff", "Implement data encryption"),
		okr("2", "Build Provider Network", "ceo", "Onboard 50 providers", "Achieve 90% satisfaction", "1K patient visits"),
	},
}

var defaultOKRs = []domain.OKR{
	okr("1", "Launch MVP Successfully", "ceo", "Ship 10 core features", "Achieve 95% test coverage", "Onboard 100 users"),
	okr("2", "Achieve Product-Market Fit", "ceo", "Reach 1K users", "Achieve $20K MRR", "60% user retention"),
}
