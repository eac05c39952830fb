package classifier

const classificationPrompt = `You review photos submitted for an electronic waste pickup service.

Decide whether the photo shows at least one real electronic device: a phone, laptop,
tablet, battery, power bank, charger, camera, headphones, console or similar. People,
animals, food, furniture, buildings, clothing, books and plants are not electronic
waste. A person holding a device counts; a person without one does not. Be strict.

Classify the most prominent device as one of:
- "smartphone": handheld phones with a touchscreen
- "laptop": notebooks and MacBooks, open or closed; larger than a phone, with a keyboard
- "battery": batteries, power banks and battery packs
- "tablet": iPads, e-readers and keyboardless touchscreen devices
- "other": any other electronic device

Name the model as precisely as the photo allows (for example "iPhone 13", "MacBook Air
13-inch", "Dell XPS 15", "Samsung Galaxy S23"). If unsure, use a generic name such as
"iPhone", "Android Phone", "MacBook", "Windows Laptop" or "iPad".

Count every device you see. Set confidence from 0.0 to 1.0 by how clearly the device
is visible.

Answer with JSON only:
{
  "is_electronic_waste": true,
  "device_count": 1,
  "detected_devices": ["device names"],
  "device_type": "smartphone|laptop|battery|tablet|other",
  "device_model": "model name",
  "confidence": 0.0,
  "message": "what you see"
}`
