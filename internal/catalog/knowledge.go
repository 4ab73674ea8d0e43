package catalog

import "virtualco/internal/domain"

type roleKnowledge struct {
	messages []Activity
	tasks    []Activity
}

var domainKnowledge = map[string]map[domain.Role]roleKnowledge{
	"saas": {
		domain.RoleCEO: {
			messages: []Activity{
				msg("Let's focus on reducing customer churn - it's 5x cheaper than acquiring new users"),
				msg("We need to improve our activation rate. Only 40% of signups complete onboarding"),
				msg("Time to explore a product-led growth strategy with a freemium tier"),
				msg("Our CAC is too high. Let's double down on content marketing and SEO"),
				msg("Should we consider adding enterprise features for upmarket expansion?"),
			},
			tasks: []Activity{
				task("Analyze user cohort retention", "Review monthly cohort analysis and identify drop-off points", domain.PriorityHigh, domain.TaskPlanning),
				task("Define pricing tier strategy", "Research competitor pricing and create tiered model", domain.PriorityHigh, domain.TaskPlanning),
				task("Plan product roadmap for Q2", "Prioritize features based on customer feedback and metrics", domain.PriorityMedium, domain.TaskPlanning),
			},
		},
		domain.RoleDeveloper: {
			messages: []Activity{
				msg("Implementing webhook system for better integration capabilities"),
				msg("Building API rate limiting to prevent abuse and ensure stability"),
				msg("Adding multi-tenancy support for enterprise customers"),
				msg("Optimizing database queries - reduced load time by 60%"),
				msg("Setting up automated scaling for traffic spikes"),
			},
			tasks: []Activity{
				task("Build SSO integration", "Implement SAML/OAuth for enterprise SSO", domain.PriorityHigh, domain.TaskFeature),
				task("Create REST API v2", "Design and implement versioned API with better docs", domain.PriorityHigh, domain.TaskFeature),
				task("Add usage analytics", "Track feature usage and user behavior patterns", domain.PriorityMedium, domain.TaskFeature),
			},
		},
		domain.RoleMarketer: {
			messages: []Activity{
				msg("Our trial-to-paid conversion is at 18% - industry average is 25%"),
				msg("Content marketing is driving 40% of our organic signups"),
				msg("Planning product hunt launch for next month - need assets ready"),
				msg("User testimonials increased conversion by 12% - need more case studies"),
				msg("Implementing drip email campaigns for trial users"),
			},
			tasks: []Activity{
				task("Create comparison pages", "Build SEO-optimized competitor comparison pages", domain.PriorityHigh, domain.TaskMarketing),
				task("Launch referral program", "Design and implement customer referral incentives", domain.PriorityMedium, domain.TaskMarketing),
				task("Product demo videos", "Create walkthrough videos for key features", domain.PriorityMedium, domain.TaskMarketing),
			},
		},
	},
	"ecommerce": {
		domain.RoleCEO: {
			messages: []Activity{
				msg("Cart abandonment rate is 70% - we need to address this immediately"),
				msg("Let's explore subscription box model to increase LTV"),
				msg("Should we expand to Amazon FBA or focus on DTC strategy?"),
				msg("Mobile conversion is 30% lower than desktop - major opportunity"),
				msg("Need to optimize for faster checkout - every second costs us conversions"),
			},
			tasks: []Activity{
				task("Analyze shopping behavior", "Deep dive into cart abandonment reasons", domain.PriorityHigh, domain.TaskPlanning),
				task("Expansion strategy research", "Evaluate marketplace vs DTC growth paths", domain.PriorityHigh, domain.TaskPlanning),
				task("Loyalty program design", "Create customer retention program structure", domain.PriorityMedium, domain.TaskPlanning),
			},
		},
		domain.RoleDeveloper: {
			messages: []Activity{
				msg("Implementing one-click checkout to reduce friction"),
				msg("Building product recommendation engine with ML"),
				msg("Optimizing image loading - improved page speed by 40%"),
				msg("Adding inventory management system integration"),
				msg("Setting up abandoned cart recovery emails"),
			},
			tasks: []Activity{
				task("Payment gateway integration", "Add Apple Pay, Google Pay, and Buy Now Pay Later", domain.PriorityHigh, domain.TaskFeature),
				task("Build wishlist feature", "Allow users to save items for later", domain.PriorityMedium, domain.TaskFeature),
				task("Size recommendation tool", "ML-based size fitting recommendations", domain.PriorityMedium, domain.TaskFeature),
			},
		},
		domain.RoleMarketer: {
			messages: []Activity{
				msg("Facebook ads ROA is 3.2x - scaling winning campaigns"),
				msg("Email marketing generates 30% of revenue - highest ROI channel"),
				msg("User-generated content increased trust and conversion by 15%"),
				msg("Planning flash sale for weekend - expecting 200% traffic spike"),
				msg("Influencer partnerships driving quality traffic and brand awareness"),
			},
			tasks: []Activity{
				task("Create seasonal campaigns", "Plan holiday shopping campaign strategy", domain.PriorityHigh, domain.TaskMarketing),
				task("Optimize product pages", "A/B test product descriptions and images", domain.PriorityHigh, domain.TaskMarketing),
				task("Build ambassador program", "Recruit and manage brand ambassadors", domain.PriorityMedium, domain.TaskMarketing),
			},
		},
	},
	"fintech": {
		domain.RoleCEO: {
			messages: []Activity{
				msg("Compliance is critical - we need SOC 2 Type 2 before Series A"),
				msg("Transaction volume growing 25% MoM but we need better unit economics"),
				msg("Exploring banking-as-a-service partnerships for embedded finance"),
				msg("Fraud prevention is paramount - one major incident could destroy trust"),
				msg("Should we apply for our own banking charter or continue with partners?"),
			},
			tasks: []Activity{
				task("Regulatory compliance audit", "Prepare for upcoming compliance review", domain.PriorityHigh, domain.TaskPlanning),
				task("Partnership strategy", "Evaluate potential banking and card network partners", domain.PriorityHigh, domain.TaskPlanning),
				task("Risk management framework", "Develop comprehensive risk assessment process", domain.PriorityHigh, domain.TaskPlanning),
			},
		},
		domain.RoleDeveloper: {
			messages: []Activity{
				msg("Implementing real-time fraud detection with ML models"),
				msg("Building PCI DSS compliant payment processing system"),
				msg("Adding 2FA and biometric authentication for security"),
				msg("Creating audit logging for all financial transactions"),
				msg("Optimizing transaction processing - now sub-100ms latency"),
			},
			tasks: []Activity{
				task("Build KYC verification", "Integrate identity verification service", domain.PriorityHigh, domain.TaskFeature),
				task("Transaction monitoring", "Real-time anomaly detection system", domain.PriorityHigh, domain.TaskFeature),
				task("Implement ACH payments", "Add bank transfer capabilities", domain.PriorityMedium, domain.TaskFeature),
			},
		},
		domain.RoleMarketer: {
			messages: []Activity{
				msg("Trust is everything in fintech - highlighting security in all messaging"),
				msg("Educational content performing well - people need to understand how we work"),
				msg("Partnerships with financial influencers building credibility"),
				msg("Referral program driving 40% of new users - incentives work in fintech"),
				msg("Comparison tools showing we save users $500/year on average"),
			},
			tasks: []Activity{
				task("Create trust badges", "Design security and compliance badge system", domain.PriorityHigh, domain.TaskMarketing),
				task("Financial literacy content", "Build educational blog and video content", domain.PriorityMedium, domain.TaskMarketing),
				task("Launch savings calculator", "Interactive tool showing potential savings", domain.PriorityMedium, domain.TaskMarketing),
			},
		},
	},
	"healthcare": {
		domain.RoleCEO: {
			messages: []Activity{
				msg("HIPAA compliance is non-negotiable - every feature needs security review"),
				msg("Patient data privacy must be our top priority in every decision"),
				msg("Telemedicine demand up 300% - need to scale infrastructure"),
				msg("Provider network expansion critical for market penetration"),
				msg("Insurance integration complexity is slowing us down - need strategy"),
			},
			tasks: []Activity{
				task("HIPAA audit preparation", "Complete security and privacy compliance review", domain.PriorityHigh, domain.TaskPlanning),
				task("Provider onboarding", "Streamline medical professional registration", domain.PriorityHigh, domain.TaskPlanning),
				task("Payer partnerships", "Negotiate insurance coverage agreements", domain.PriorityMedium, domain.TaskPlanning),
			},
		},
		domain.RoleDeveloper: {
			messages: []Activity{
				msg("Implementing end-to-end encryption for all patient data"),
				msg("Building FHIR-compliant API for EHR integration"),
				msg("Adding secure video conferencing for telehealth"),
				msg("Creating patient consent management system"),
				msg("Optimizing prescription refill workflow"),
			},
			tasks: []Activity{
				task("Build appointment scheduling", "Real-time availability and booking system", domain.PriorityHigh, domain.TaskFeature),
				task("E-prescribing integration", "Connect to pharmacy networks", domain.PriorityHigh, domain.TaskFeature),
				task("Lab results portal", "Secure test results viewing for patients", domain.PriorityMedium, domain.TaskFeature),
			},
		},
		domain.RoleMarketer: {
			messages: []Activity{
				msg("Patient testimonials are powerful - real stories build trust"),
				msg("Educational content about preventive care resonates strongly"),
				msg("Provider credentials and expertise must be highlighted"),
				msg("Mobile-first approach critical - most users book on phones"),
				msg("Community outreach programs building local brand awareness"),
			},
			tasks: []Activity{
				task("Patient education series", "Create health literacy content library", domain.PriorityHigh, domain.TaskMarketing),
				task("Provider spotlights", "Feature medical professional backgrounds", domain.PriorityMedium, domain.TaskMarketing),
				task("Symptom checker tool", "Interactive health assessment tool", domain.PriorityMedium, domain.TaskMarketing),
			},
		},
	},
	"edtech": {
		domain.RoleCEO: {
			messages: []Activity{
				msg("Course completion rate is 65% - need to improve engagement"),
				msg("Exploring B2B sales to enterprises and educational institutions"),
				msg("Accreditation will open doors to traditional education market"),
				msg("Student success metrics are our North Star - everything ties to outcomes"),
				msg("Should we focus on upskilling professionals or K-12 market?"),
			},
			tasks: []Activity{
				task("Define learning outcomes", "Establish measurable success criteria", domain.PriorityHigh, domain.TaskPlanning),
				task("Enterprise package design", "Create B2B offering for companies", domain.PriorityHigh, domain.TaskPlanning),
				task("Instructor recruitment", "Build pipeline for quality educators", domain.PriorityMedium, domain.TaskPlanning),
			},
		},
		domain.RoleDeveloper: {
			messages: []Activity{
				msg("Building adaptive learning algorithm to personalize content"),
				msg("Implementing progress tracking and achievements system"),
				msg("Adding live class features with breakout rooms"),
				msg("Creating mobile app for offline learning"),
				msg("Optimizing video streaming for low-bandwidth areas"),
			},
			tasks: []Activity{
				task("Build quiz engine", "Interactive assessment and feedback system", domain.PriorityHigh, domain.TaskFeature),
				task("Discussion forums", "Student-teacher communication platform", domain.PriorityMedium, domain.TaskFeature),
				task("Certificate system", "Generate completion certificates", domain.PriorityMedium, domain.TaskFeature),
			},
		},
		domain.RoleMarketer: {
			messages: []Activity{
				msg("Free trial-to-paid conversion at 22% - solid but can improve"),
				msg("Student success stories are our best marketing asset"),
				msg("SEO for \"how to learn X\" queries driving quality traffic"),
				msg("Partnership with career platforms boosting enrollment"),
				msg("LinkedIn ads performing well for professional upskilling courses"),
			},
			tasks: []Activity{
				task("Create course previews", "Free sample lessons to showcase value", domain.PriorityHigh, domain.TaskMarketing),
				task("Alumni network", "Build community of successful graduates", domain.PriorityMedium, domain.TaskMarketing),
				task("Scholarship program", "Offer need-based learning opportunities", domain.PriorityMedium, domain.TaskMarketing),
			},
		},
	},
}
