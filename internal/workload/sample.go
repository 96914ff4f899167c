package workload

// Sample returns the canonical ten-task workload: a diamond-shaped DAG with
// eleven dependency edges, mixed durations and a wide spread of periods.
// It doubles as the fixture for end-to-end tests.
func Sample() *Workload {
	return &Workload{
		Tasks: []TaskDef{
			{Name: "task0", Duration: 172, Period: 500},
			{Name: "task1", Duration: 105, Period: 200, DependsOn: []string{"task0"}},
			{Name: "task2", Duration: 252, Period: 800, DependsOn: []string{"task0"}},
			{Name: "task3", Duration: 91, Period: 300, DependsOn: []string{"task1"}},
			{Name: "task4", Duration: 120, Period: 250, DependsOn: []string{"task1"}},
			{Name: "task5", Duration: 138, Period: 350, DependsOn: []string{"task2"}},
			{Name: "task6", Duration: 47, Period: 150, DependsOn: []string{"task3", "task4"}},
			{Name: "task7", Duration: 65, Period: 400, DependsOn: []string{"task5"}},
			{Name: "task8", Duration: 185, Period: 600, DependsOn: []string{"task6"}},
			{Name: "task9", Duration: 78, Period: 100, DependsOn: []string{"task7", "task8"}},
		},
	}
}
