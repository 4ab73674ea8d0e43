package catalog

import "virtualco/internal/domain"

var bugReports = []string{
	"Found a memory leak in the user session handler",
	"Login button not responsive on mobile Safari",
	"Payment confirmation email has wrong template",
	"Dashboard charts rendering incorrectly on Firefox",
	"API returning 500 error on edge case inputs",
}

var prTitles = []string{
	"Add user authentication flow",
	"Implement dark mode toggle",
	"Optimize database queries",
	"Add email notification system",
	"Refactor component architecture",
}

var meetingRemarks = []string{
	"We're making great progress on the core features!",
	"I think we should focus more on testing this sprint.",
	"Customer feedback has been positive, let's capitalize on that.",
	"We need to address technical debt before it becomes a problem.",
	"Marketing metrics are trending upward!",
	"Documentation is helping reduce support tickets.",
	"Our burn rate is healthy - we have good runway.",
}

var docTemplates = map[domain.DocType]string{
	domain.DocAPI: `# API Documentation

## Authentication
All API requests require authentication using JWT tokens.

## Endpoints
- GET /api/users - List all users
- POST /api/users - Create new user
- GET /api/products - List products`,
	domain.DocUserGuide: `# User Guide

Welcome to our platform! This guide will help you get started.

## Getting Started
1. Create an account
2. Complete your profile
3. Start using features

## Tips & Tricks
- Use keyboard shortcuts for faster navigation
- Enable notifications for updates`,
	domain.DocTechnical: `# Technical Architecture

## System Overview
Our platform uses a microservices architecture with React frontend and Node.js backend.

## Database Schema
PostgreSQL for relational data, Redis for caching.`,
	domain.DocOnboarding: `# Onboarding Guide

## Welcome!
Thank you for joining us. Here's how to get started:

1. Complete your profile
2. Explore the dashboard
3. Join your first project`,
}
