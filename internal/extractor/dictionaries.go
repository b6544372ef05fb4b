package extractor

// Static dictionaries. All four lists are fixed, recruiting-specific,
// and loaded once per process; lookup semantics differ per list and are
// documented at each use site.

// skillCatalog is the canonical skill list with display casing. Lookup
// is case-insensitive and word-boundary; output order is first-seen in
// the document, not catalog order.
var skillCatalog = []string{
	// Languages
	"Java", "Python", "Go", "JavaScript", "TypeScript", "C++", "C#",
	"Ruby", "PHP", "Kotlin", "Swift", "Scala", "Rust", "Perl",
	// Web / frameworks
	"Spring", "Spring Boot", "Hibernate", "Struts", "Django", "Flask",
	"FastAPI", "Node.js", "Express", "React", "Angular", "Vue",
	"Next.js", "jQuery", "HTML", "CSS", "Bootstrap", "Tailwind",
	"Rails", "Laravel", ".NET", "ASP.NET", "gRPC", "GraphQL", "REST",
	// Databases
	"MySQL", "PostgreSQL", "Oracle", "SQL Server", "MongoDB", "Redis",
	"Cassandra", "DynamoDB", "Elasticsearch", "SQLite", "MariaDB",
	"Neo4j", "Couchbase", "SQL", "PL/SQL",
	// Cloud / DevOps
	"AWS", "Azure", "GCP", "Docker", "Kubernetes", "Terraform",
	"Ansible", "Jenkins", "Git", "GitHub", "GitLab", "Bitbucket",
	"CI/CD", "Linux", "Unix", "Shell", "Bash", "Nginx", "Kafka",
	"RabbitMQ", "Prometheus", "Grafana",
	// Testing
	"Selenium", "JUnit", "TestNG", "Cypress", "Playwright", "Jest",
	"Mockito", "Cucumber", "Postman", "JMeter",
	// Mobile
	"Android", "iOS", "React Native", "Flutter", "Xamarin",
	// Data / ML
	"Pandas", "NumPy", "scikit-learn", "TensorFlow", "PyTorch", "Keras",
	"Spark", "Hadoop", "Hive", "Airflow", "Tableau", "Power BI",
	"Machine Learning", "Deep Learning", "NLP", "Computer Vision",
	"Data Science", "ETL", "Excel",
}

// locationGazetteer is the known-city list. Gazetteer order, not
// document order, is the priority: the first entry here found anywhere
// in the text wins.
var locationGazetteer = []string{
	"Chennai", "Bangalore", "Bengaluru", "Hyderabad", "Mumbai", "Pune",
	"Delhi", "New Delhi", "Gurgaon", "Gurugram", "Noida", "Kolkata",
	"Coimbatore", "Kochi", "Cochin", "Trivandrum", "Thiruvananthapuram",
	"Madurai", "Mysore", "Mysuru", "Ahmedabad", "Jaipur", "Indore",
	"Nagpur", "Lucknow", "Chandigarh", "Bhubaneswar", "Visakhapatnam",
	"Vijayawada", "Trichy", "Salem", "Vellore", "Pondicherry",
}

// jobTitleBlacklist holds title words stripped from the edges of a
// first-line name candidate. Matching is case-insensitive and
// substring-based in either direction for tokens of three or more
// letters; initials are never treated as titles.
var jobTitleBlacklist = []string{
	"developer", "engineer", "programmer", "architect", "consultant",
	"manager", "analyst", "administrator", "designer", "tester",
	"lead", "senior", "junior", "principal", "associate", "intern",
	"trainee", "fresher", "executive", "specialist", "scientist",
	"fullstack", "frontend", "backend", "devops", "software",
}

// invalidTermBlacklist rejects whole name candidates that contain a
// resume section header or a title word anywhere (case-insensitive).
var invalidTermBlacklist = []string{
	"resume", "curriculum", "vitae", "objective", "summary", "profile",
	"skills", "education", "experience", "project", "certification",
	"declaration", "contact", "address", "email", "phone", "mobile",
	"developer", "engineer", "manager", "consultant", "analyst",
	"architect", "administrator",
}
