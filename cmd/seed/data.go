package main

import (
	"github.com/rrishiddh/portfolio-project-backend/internal/models"
	"github.com/rrishiddh/portfolio-project-backend/internal/service"
)

func sampleBlogs() []service.CreateBlogInput {
	return []service.CreateBlogInput{
		{
			Title: "Getting Started with Next.js and TypeScript",
			Content: `# Getting Started with Next.js and TypeScript

Next.js is a React framework that makes building web applications a breeze. Combined with TypeScript it gives type safety and better tooling.

## Why Next.js?

- **Server-side Rendering**: better SEO and first paint
- **Static Site Generation**: pre-render pages at build time
- **API Routes**: build the backend next to the frontend

## Setting up TypeScript

` + "```bash\nnpx create-next-app@latest my-app --typescript\ncd my-app\nnpm run dev\n```" + `

Next.js configures TypeScript for you.`,
			Excerpt:        ptr("Learn how to get started with Next.js and TypeScript for building modern web applications with type safety."),
			CoverImage:     ptr("https://images.unsplash.com/photo-1633356122544-f134324a6cee?w=800&q=80"),
			Published:      true,
			Featured:       true,
			Tags:           []string{"Next.js", "TypeScript", "React", "Web Development", "Tutorial"},
			SEOTitle:       ptr("Getting Started with Next.js and TypeScript"),
			SEODescription: ptr("Set up and use Next.js with TypeScript for modern, type-safe web applications. A beginner-friendly tutorial."),
		},
		{
			Title: "Building RESTful APIs with Node.js and Express",
			Content: `# Building RESTful APIs with Node.js and Express

REST is an architectural style built on stateless communication and standard HTTP methods.

## HTTP Methods

- **GET** retrieves resources
- **POST** creates resources
- **PATCH** updates resources
- **DELETE** removes resources

## Best Practices

Use proper status codes, validate every input, rate limit public endpoints and keep dependencies updated.`,
			Excerpt:        ptr("The fundamentals of building RESTful APIs with Node.js and Express, with best practices and security considerations."),
			CoverImage:     ptr("https://images.unsplash.com/photo-1558494949-ef010cbdcc31?w=800&q=80"),
			Published:      true,
			Tags:           []string{"Node.js", "Express", "API", "Backend", "REST", "Tutorial"},
			SEOTitle:       ptr("Building RESTful APIs with Node.js and Express"),
			SEODescription: ptr("A complete guide to building scalable RESTful APIs with Node.js and Express."),
		},
		{
			Title: "Understanding React Hooks: A Deep Dive",
			Content: `# Understanding React Hooks

Hooks let function components hold state and run side effects.

## useState

` + "```javascript\nconst [count, setCount] = useState(0);\n```" + `

## useEffect

Effects run after render. Return a cleanup function to unsubscribe.

## Custom Hooks

Extract reusable stateful logic into functions whose names start with "use".`,
			Excerpt:    ptr("A deep dive into React Hooks: useState, useEffect and writing your own custom hooks."),
			CoverImage: ptr("https://images.unsplash.com/photo-1633356122102-3fe601e05bd2?w=800&q=80"),
			Published:  true,
			Tags:       []string{"React", "Hooks", "JavaScript", "Frontend"},
		},
	}
}

func sampleProjects() []service.CreateProjectInput {
	return []service.CreateProjectInput{
		{
			Title:        "E-commerce Platform",
			Description:  "A full-stack e-commerce platform with payments, inventory management and an admin dashboard.",
			Content:      ptr("Built with Next.js and Node.js. Features product search, a persistent cart, Stripe checkout and order tracking."),
			Thumbnail:    ptr("https://images.unsplash.com/photo-1556742049-0cfed4f6a45d?w=800&q=80"),
			Technologies: []string{"Next.js", "Node.js", "PostgreSQL", "Stripe", "TypeScript", "Tailwind CSS", "Redux", "Prisma"},
			Features:     []string{"Product catalog with search", "Stripe payments", "Admin dashboard", "Order tracking"},
			LiveURL:      ptr("https://ecommerce-demo.example.com"),
			GithubURL:    ptr("https://github.com/example/ecommerce-platform"),
			Status:       models.ProjectCompleted,
			Featured:     true,
			Order:        1,
		},
		{
			Title:        "Task Management App",
			Description:  "A collaborative task manager with real-time updates, boards and team workspaces.",
			Thumbnail:    ptr("https://images.unsplash.com/photo-1611224923853-80b023f02d71?w=800&q=80"),
			Technologies: []string{"React", "Node.js", "MongoDB", "Socket.io", "Material-UI", "Redux", "AWS S3"},
			Features:     []string{"Real-time collaboration", "Kanban boards", "File attachments"},
			GithubURL:    ptr("https://github.com/example/task-manager"),
			Status:       models.ProjectCompleted,
			Featured:     true,
			Order:        2,
		},
		{
			Title:        "Weather Forecast Dashboard",
			Description:  "An interactive weather dashboard with forecasts, charts and maps.",
			Technologies: []string{"React", "TypeScript", "Chart.js", "Leaflet", "OpenWeatherMap API"},
			Features:     []string{"7-day forecast", "Interactive maps", "Historical charts"},
			Status:       models.ProjectCompleted,
			Order:        3,
		},
	}
}

func sampleResume() service.CreateResumeInput {
	return service.CreateResumeInput{
		Title: "Software Developer Resume",
		PersonalInfo: &models.PersonalInfo{
			FullName: "John Doe",
			Email:    "user@portfolio.com",
			Phone:    "+1 (555) 123-4567",
			Location: "San Francisco, CA",
			Website:  "https://johndoe.dev",
			LinkedIn: "https://linkedin.com/in/johndoe",
			GitHub:   "https://github.com/johndoe",
			Summary:  "Full-stack developer with 3+ years of experience building web applications with React, Node.js and cloud technologies.",
		},
		Experience: []models.Experience{
			{
				Position:    "Full Stack Developer",
				Company:     "Tech Innovations Inc.",
				Location:    "San Francisco, CA",
				StartDate:   "2022-01",
				Current:     true,
				Description: "Building customer-facing web applications.",
				Achievements: []string{
					"Led a dashboard rewrite that cut load time by 40%",
					"Introduced end-to-end testing across three teams",
				},
			},
			{
				Position:     "Frontend Developer",
				Company:      "StartupXYZ",
				Location:     "Remote",
				StartDate:    "2020-06",
				EndDate:      "2021-12",
				Achievements: []string{"Shipped the mobile-first redesign"},
			},
		},
		Education: []models.Education{
			{
				Degree:      "Bachelor of Science",
				Field:       "Computer Science",
				Institution: "University of California, Berkeley",
				Location:    "Berkeley, CA",
				StartDate:   "2016-09",
				EndDate:     "2020-05",
				GPA:         "3.8",
			},
		},
		Skills: []models.Skill{
			{Name: "JavaScript", Level: "Expert", Category: "Programming Languages"},
			{Name: "TypeScript", Level: "Advanced", Category: "Programming Languages"},
			{Name: "Python", Level: "Intermediate", Category: "Programming Languages"},
			{Name: "React", Level: "Expert", Category: "Frontend"},
			{Name: "Next.js", Level: "Advanced", Category: "Frontend"},
			{Name: "Node.js", Level: "Expert", Category: "Backend"},
			{Name: "PostgreSQL", Level: "Advanced", Category: "Database"},
			{Name: "Docker", Level: "Intermediate", Category: "DevOps"},
		},
		Projects: []models.ResumeProject{
			{
				Name:         "E-commerce Platform",
				Description:  "Full-stack store with payments and an admin dashboard.",
				Technologies: []string{"Next.js", "Node.js", "PostgreSQL", "Stripe"},
				URL:          "https://ecommerce-demo.example.com",
				Highlights:   []string{"Processed 10k+ test orders"},
			},
		},
	}
}
