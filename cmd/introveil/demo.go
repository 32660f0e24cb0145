package main

// demoPage is the built-in host fixture used when no -url is given. It
// carries the surfaces the keeper interacts with: a header region, two
// denylisted controls, and a message composer.
const demoPage = `<!DOCTYPE html>
<html>
<head><title>Site Risk Navigator</title></head>
<body>
  <div id="header">
    <span class="brand">Site Risk Navigator</span>
    <button aria-label="Open README">README</button>
    <button data-testid="theme-toggle" aria-label="Dark Mode Toggle">Theme</button>
    <button aria-label="New chat">New</button>
  </div>
  <main>
    <div class="conversation"></div>
    <textarea id="message-composer" placeholder="Describe the site to assess"></textarea>
    <button aria-label="Send message">Send</button>
  </main>
</body>
</html>`
