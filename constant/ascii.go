package constant

// AsciiArtLogo is printed above the root command help.
const AsciiArtLogo = `
        __            __             _ __
  ___  / /__ ___ __  / /________ _  (_) /
 / _ \/ / _ '/ // / / __/ __/ _ '/ / / /
/ .__/_/\_,_/\_, /  \__/_/  \_,_/ /_/_/
/_/         /___/
`
