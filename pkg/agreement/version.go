package agreement

const Version = "0.1.0"
