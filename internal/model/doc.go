package model

// Package model defines domain data structures shared by the conversion and
// download pipelines: jobs, requests, playlist context, progress events, job
// results, and the error taxonomy surfaced to the UI.
