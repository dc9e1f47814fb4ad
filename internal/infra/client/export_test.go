package client

const MaxCSVBytes = maxCSVBytes
