package orchestrator

var IsExecutable = isExecutable
