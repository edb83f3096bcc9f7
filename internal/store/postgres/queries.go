package postgres

const queryListUsers = `
SELECT id, created_at
FROM users
WHERE created_at >= $1
ORDER BY created_at
LIMIT $2
`

const queryListJobs = `
SELECT id, category, location, salary, skills, status, created_at
FROM jobs
WHERE created_at >= $1
ORDER BY created_at
LIMIT $2
`

const queryListApplications = `
SELECT id, user_id, job_id, created_at
FROM applications
WHERE created_at >= $1
ORDER BY created_at
LIMIT $2
`
