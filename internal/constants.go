package internal

const ApplicationName = "condamatch"
